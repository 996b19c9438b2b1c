package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/llm"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Demo account defaults.
const (
	DefaultHolder   = "Thomas Michael"
	DefaultOnlineID = "thomas_michael"
	DefaultPasscode = "BoA@2024"
	DefaultEmail    = "thomasgggf513@gmail.com"
)

// Settings holds the application configuration.
type Settings struct {
	Logging      LoggingSettings
	Account      AccountSettings
	DatabasePath string
	OTP          OTPSettings
	Chat         ChatSettings
	Login        LoginSettings
	Insight      InsightSettings
}

// AccountSettings describes the single demo account.
type AccountSettings struct {
	InitialBalance decimal.Decimal
	Holder         string
	Email          string
	OnlineID       string
	// PasscodeHash is a bcrypt hash. Empty means the demo passcode.
	PasscodeHash string
}

// OTPSettings controls verification code delivery.
type OTPSettings struct {
	Destination   string
	DeliveryDelay time.Duration
}

// LoginSettings controls the simulated sign-in.
type LoginSettings struct {
	Delay time.Duration
}

// InsightSettings controls the post-login insight.
type InsightSettings struct {
	Delay        time.Duration
	RecentWindow time.Duration
}

// ChatSettings controls the simulated assistant chat timing.
type ChatSettings struct {
	DeliveredDelay time.Duration
	ReplyDelay     time.Duration
}

// LoggingSettings controls log output.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "$HOME/.local/share/teller/teller.db")
	v.SetDefault("account.holder", DefaultHolder)
	v.SetDefault("account.email", DefaultEmail)
	v.SetDefault("account.online_id", DefaultOnlineID)
	v.SetDefault("account.passcode_hash", "")
	v.SetDefault("account.initial_balance", "20000.00")
	v.SetDefault("otp.delivery_delay", 800*time.Millisecond)
	v.SetDefault("otp.destination", "")
	v.SetDefault("login.delay", 1200*time.Millisecond)
	v.SetDefault("insight.delay", 2*time.Second)
	v.SetDefault("insight.recent_window", time.Minute)
	v.SetDefault("chat.delivered_delay", 600*time.Millisecond)
	v.SetDefault("chat.reply_delay", 1500*time.Millisecond)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "$HOME/.local/share/teller/teller.log")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.max_tokens", 60)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("llm.cache_ttl", 15*time.Minute)
	v.SetDefault("llm.rate_limit", 30)
}

// Load reads Settings from v.
func Load(v *viper.Viper) (*Settings, error) {
	balance, err := decimal.NewFromString(v.GetString("account.initial_balance"))
	if err != nil {
		return nil, fmt.Errorf("%w: account.initial_balance: %v", common.ErrInvalidConfig, err)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: account.initial_balance must not be negative", common.ErrInvalidConfig)
	}

	settings := &Settings{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		Account: AccountSettings{
			InitialBalance: balance,
			Holder:         v.GetString("account.holder"),
			Email:          v.GetString("account.email"),
			OnlineID:       v.GetString("account.online_id"),
			PasscodeHash:   v.GetString("account.passcode_hash"),
		},
		OTP: OTPSettings{
			Destination:   v.GetString("otp.destination"),
			DeliveryDelay: v.GetDuration("otp.delivery_delay"),
		},
		Login: LoginSettings{
			Delay: v.GetDuration("login.delay"),
		},
		Insight: InsightSettings{
			Delay:        v.GetDuration("insight.delay"),
			RecentWindow: v.GetDuration("insight.recent_window"),
		},
		Chat: ChatSettings{
			DeliveredDelay: v.GetDuration("chat.delivered_delay"),
			ReplyDelay:     v.GetDuration("chat.reply_delay"),
		},
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if settings.OTP.Destination == "" {
		settings.OTP.Destination = settings.Account.Email
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks the settings for values the application cannot run with.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DatabasePath) == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if strings.TrimSpace(s.Account.OnlineID) == "" {
		return fmt.Errorf("%w: account.online_id", common.ErrMissingConfig)
	}
	for name, d := range map[string]time.Duration{
		"otp.delivery_delay":    s.OTP.DeliveryDelay,
		"login.delay":           s.Login.Delay,
		"insight.delay":         s.Insight.Delay,
		"chat.delivered_delay":  s.Chat.DeliveredDelay,
		"chat.reply_delay":      s.Chat.ReplyDelay,
		"insight.recent_window": s.Insight.RecentWindow,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, name)
		}
	}
	return nil
}

// LoadLLMConfig loads the insight provider configuration from v and the environment.
// It follows this precedence:
// 1. Viper configuration (from config file or TELLER_ env vars)
// 2. Provider environment variables (GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY)
// A provider without a key falls back to "none", which always yields canned insights.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	cfg := llm.Config{
		Provider:    strings.ToLower(v.GetString("llm.provider")),
		Model:       v.GetString("llm.model"),
		Temperature: v.GetFloat64("llm.temperature"),
		TopP:        v.GetFloat64("llm.top_p"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
		MaxRetries:  v.GetInt("llm.max_retries"),
		RetryDelay:  v.GetDuration("llm.retry_delay"),
		CacheTTL:    v.GetDuration("llm.cache_ttl"),
		RateLimit:   v.GetInt("llm.rate_limit"),
		BaseURL:     v.GetString("llm.base_url"),
	}

	var envKey string
	switch cfg.Provider {
	case "gemini":
		envKey = "GEMINI_API_KEY"
	case "anthropic":
		envKey = "ANTHROPIC_API_KEY"
	case "openai":
		envKey = "OPENAI_API_KEY"
	case "none", "":
		cfg.Provider = "none"
		return cfg, nil
	default:
		return llm.Config{}, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}

	cfg.APIKey = v.GetString("llm." + cfg.Provider + "_api_key")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envKey)
	}
	if cfg.APIKey == "" {
		cfg.Provider = "none"
	}

	return cfg, nil
}
