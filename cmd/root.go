package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/marcus/flyout/internal/config"
	"github.com/spf13/cobra"
)

var (
	version  string
	baseDir  string
	logFile  string
	logLevel string

	logCloser io.Closer
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "flyout",
	Short: "Tooltip and menu overlay engine for terminal UIs",
	Long: `flyout - interaction engines for overlay widgets in bubbletea programs.

Tooltips open after a hover delay and linger briefly after the pointer leaves.
Menus open from a trigger, keep an active item under keyboard navigation and
typeahead, and hand focus back when they close.

Settings are read from .flyout/config.json in the working directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file (default: from config, else discarded)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the directory holding .flyout/
func getBaseDir() string {
	return baseDir
}

// loadConfig reads the config for the base directory.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getBaseDir())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the default slog logger. A TUI owns the terminal,
// so logs only go to a file.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}

	path := logFile
	if path == "" {
		if cfg, err := config.Load(getBaseDir()); err == nil {
			path = cfg.LogFile
		}
	}
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logCloser = f
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: level,
	})).With("version", version))
	slog.Debug("command start", "cmd", cmd.CommandPath())
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", s, err)
	}
	return level, nil
}
