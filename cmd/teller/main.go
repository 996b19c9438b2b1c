package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/config"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// tuiAnnotation marks commands that take over the terminal. Their logs go
// to the configured log file instead of stderr.
const tuiAnnotation = "tui"

// rootOptions carries state shared by every command of one invocation.
type rootOptions struct {
	viper    *viper.Viper
	settings *config.Settings
	logFile  io.Closer
	// codes overrides verification code generation. Nil uses crypto/rand.
	codes   otp.CodeSource
	cfgFile string
}

func newRootCmd() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(o *rootOptions) *cobra.Command {
	if o.viper == nil {
		o.viper = viper.New()
	}

	rootCmd := &cobra.Command{
		Use:   "teller",
		Short: "🏦 Pocket Teller: a terminal banking demo",
		Long: `Pocket Teller is a single-account banking demo for your terminal.

Every transfer and bill payment is held until you confirm it with a
one-time verification code. Run without a command to open the app.`,
		Annotations:        map[string]string{tuiAnnotation: "true"},
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  o.initConfig,
		PersistentPostRunE: o.closeLog,
		RunE:               o.runApp,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default: $HOME/.config/teller/config.yaml)")
	flags.String("db", "", "database path (default: $HOME/.local/share/teller/teller.db)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = o.viper.BindPFlag("database.path", flags.Lookup("db"))
	_ = o.viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = o.viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		appCmd(o),
		loginCmd(o),
		logoutCmd(o),
		balanceCmd(o),
		notificationsCmd(o),
		transferCmd(o),
		payCmd(o),
		statementsCmd(o),
		insightCmd(o),
		chatCmd(o),
		migrateCmd(o),
		hashPasscodeCmd(),
		versionCmd(),
	)

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, common.UserMessage(err))
		os.Exit(1)
	}
}

func (o *rootOptions) initConfig(cmd *cobra.Command, _ []string) error {
	v := o.viper

	// Set up config file
	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		v.AddConfigPath(filepath.Join(home, ".config", "teller"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("TELLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	o.settings = settings

	if err := o.setupLogging(cmd); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// setupLogging sends logs to stderr, or to the log file for commands that
// draw a full-screen interface.
func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	level, err := common.ParseLevel(o.settings.Logging.Level)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.ErrOrStderr()
	if cmd.Annotations[tuiAnnotation] != "" && o.settings.Logging.File != "" {
		f, err := config.OpenLogFile(o.settings.Logging.File)
		if err != nil {
			return err
		}
		o.logFile = f
		w = f
	}

	return common.SetupLogger(w, level, o.settings.Logging.Format)
}

func (o *rootOptions) closeLog(_ *cobra.Command, _ []string) error {
	if o.logFile == nil {
		return nil
	}
	err := o.logFile.Close()
	o.logFile = nil
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "teller %s\n", version)
		},
	}
}
