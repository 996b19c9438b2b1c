package insight

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
)

// Defaults for the post-login insight.
const (
	DefaultDelay        = 2 * time.Second
	DefaultRecentWindow = time.Minute
)

// RecordWriter is the part of the ledger the scheduler writes to.
type RecordWriter interface {
	HasRecentInsight(window time.Duration) bool
	AppendRecord(ctx context.Context, record model.Notification) (model.Notification, error)
}

// ActivitySource lists the transactions an insight is based on.
type ActivitySource func(ctx context.Context) ([]model.Transaction, error)

// Scheduler posts a financial insight shortly after login.
type Scheduler struct {
	generator *Generator
	records   RecordWriter
	activity  ActivitySource
	notifier  service.Notifier
	logger    *slog.Logger
	delay     time.Duration
	window    time.Duration
}

// SchedulerConfig holds the scheduler's timings.
type SchedulerConfig struct {
	Delay        time.Duration
	RecentWindow time.Duration
}

// NewScheduler creates a Scheduler.
func NewScheduler(generator *Generator, records RecordWriter, activity ActivitySource, notifier service.Notifier, cfg SchedulerConfig) *Scheduler {
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = DefaultRecentWindow
	}
	if notifier == nil {
		notifier = service.DiscardNotifier
	}
	return &Scheduler{
		generator: generator,
		records:   records,
		activity:  activity,
		notifier:  notifier,
		logger:    generator.logger,
		delay:     cfg.Delay,
		window:    cfg.RecentWindow,
	}
}

// AfterLogin waits for the configured delay, then posts an insight unless one
// was posted recently. ctx is the session scope: once it ends nothing is
// written. The returned channel yields the posted record (or nil) and closes.
func (s *Scheduler) AfterLogin(ctx context.Context) <-chan *model.Notification {
	done := make(chan *model.Notification, 1)
	go func() {
		defer close(done)

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			done <- nil
			return
		case <-timer.C:
		}

		record, err := s.Post(ctx)
		if err != nil {
			s.logger.Warn("Failed to post insight", "error", err)
		}
		done <- record
	}()
	return done
}

// Post generates and records an insight now. It returns nil without error
// when a recent insight already exists or ctx ended during generation.
func (s *Scheduler) Post(ctx context.Context) (*model.Notification, error) {
	if s.records.HasRecentInsight(s.window) {
		s.logger.Debug("Recent insight exists, skipping")
		return nil, nil
	}

	var descriptions []string
	if s.activity != nil {
		txns, err := s.activity(ctx)
		if err != nil {
			s.logger.Warn("Failed to load activity for insight", "error", err)
		}
		descriptions = Describe(txns)
	}

	insight := s.generator.Generate(ctx, descriptions)
	if ctx.Err() != nil {
		return nil, nil
	}

	record, err := s.records.AppendRecord(ctx, model.Notification{
		Title:   "Financial Insight",
		Message: insight.Text,
		Kind:    model.KindInsight,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(model.Toast{Message: "New financial insight available", Level: model.ToastInfo})
	s.logger.Info("Posted financial insight", "source", string(insight.Source))
	return &record, nil
}
