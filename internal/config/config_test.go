package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TELLER_TEST_DIR", "/var/teller")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/data/teller.db", filepath.Join(home, "data/teller.db")},
		{"$TELLER_TEST_DIR/teller.db", "/var/teller/teller.db"},
		{"/abs/path.db", "/abs/path.db"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load(newViper())
	require.NoError(t, err)

	assert.True(t, settings.Account.InitialBalance.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, DefaultOnlineID, settings.Account.OnlineID)
	assert.Equal(t, DefaultEmail, settings.OTP.Destination, "destination falls back to account email")
	assert.Equal(t, 800*time.Millisecond, settings.OTP.DeliveryDelay)
	assert.Equal(t, 1200*time.Millisecond, settings.Login.Delay)
	assert.Equal(t, 2*time.Second, settings.Insight.Delay)
	assert.Equal(t, 600*time.Millisecond, settings.Chat.DeliveredDelay)
	assert.Equal(t, 1500*time.Millisecond, settings.Chat.ReplyDelay)
	assert.NotContains(t, settings.DatabasePath, "$HOME")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{"bad balance", "account.initial_balance", "lots", common.ErrInvalidConfig},
		{"negative balance", "account.initial_balance", "-5", common.ErrInvalidConfig},
		{"negative delay", "otp.delivery_delay", -time.Second, common.ErrInvalidConfig},
		{"missing online id", "account.online_id", " ", common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadLLMConfig(t *testing.T) {
	t.Run("key from config", func(t *testing.T) {
		v := newViper()
		v.Set("llm.provider", "anthropic")
		v.Set("llm.anthropic_api_key", "sk-test")

		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
		assert.InDelta(t, 0.95, cfg.TopP, 1e-9)
	})

	t.Run("key from environment", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		cfg, err := LoadLLMConfig(newViper())
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, "env-key", cfg.APIKey)
	})

	t.Run("missing key falls back to none", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		v := newViper()
		v.Set("llm.provider", "openai")
		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "none", cfg.Provider)
	})

	t.Run("unknown provider", func(t *testing.T) {
		v := newViper()
		v.Set("llm.provider", "oracle")
		_, err := LoadLLMConfig(v)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "teller.log")
	f, err := OpenLogFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
	assert.FileExists(t, path)
}
