package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransactions(t *testing.T) {
	now := time.Now()
	tests := []struct {
		wantErr error
		name    string
		txns    []model.Transaction
	}{
		{
			name:    "nil slice",
			txns:    nil,
			wantErr: ErrNilParameter,
		},
		{
			name:    "empty slice",
			txns:    []model.Transaction{},
			wantErr: ErrEmptySlice,
		},
		{
			name:    "missing id",
			txns:    []model.Transaction{{Date: now, Description: "Coffee"}},
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "missing date",
			txns:    []model.Transaction{{ID: "t1", Description: "Coffee"}},
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "missing description",
			txns:    []model.Transaction{{ID: "t1", Date: now}},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "valid",
			txns: []model.Transaction{{ID: "t1", Date: now, Description: "Coffee"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransactions(tt.txns)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateTransactions() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateTransactions() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilter(t *testing.T) {
	early := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		filter  service.TransactionFilter
		wantErr bool
	}{
		{name: "empty filter", filter: service.TransactionFilter{}},
		{name: "ordered range", filter: service.TransactionFilter{StartDate: &early, EndDate: &late}},
		{name: "inverted range", filter: service.TransactionFilter{StartDate: &late, EndDate: &early}, wantErr: true},
		{name: "negative limit", filter: service.TransactionFilter{Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFilter(tt.filter)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFilter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateValues(t *testing.T) {
	ctx := context.Background()
	if err := validateValues(ctx, nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("nil map: got %v", err)
	}
	if err := validateValues(ctx, map[string]string{" ": "v"}); !errors.Is(err, ErrEmptyString) {
		t.Errorf("blank key: got %v", err)
	}
	if err := validateValues(ctx, map[string]string{KeyBalance: "1"}); err != nil {
		t.Errorf("valid map: got %v", err)
	}
}
