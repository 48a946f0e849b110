package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxsdk/gradlepatch"
	"github.com/maxsdk/gradlepatch/credential"
	"github.com/maxsdk/gradlepatch/settings"
)

var (
	configPath string
	logLevel   string
	dryRun     bool
	overrides  []string
)

var rootCmd = &cobra.Command{
	Use:   "maxgradle",
	Short: "Manage the AppLovin Quality Service Gradle plugin",
	Long: `maxgradle patches the Android Gradle files of a Unity project for the
AppLovin MAX SDK.

Settings are read from --config (YAML, or TOML when the file ends in .toml),
then MAXGRADLE_* environment variables, then --set key=value overrides.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "maxgradle.yaml", "settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides settings")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "print the diff instead of writing files")
	rootCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil, "override a setting, e.g. --set layout=root")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(settingsCmd)
}

// loadSettings resolves settings from file, environment and --set flags.
func loadSettings() (settings.Settings, error) {
	s, err := settings.Load(configPath)
	if err != nil {
		return s, err
	}
	if len(overrides) > 0 {
		patch, err := settings.OverridePatch(overrides)
		if err != nil {
			return s, err
		}
		if s, err = settings.ApplyOverrides(s, patch); err != nil {
			return s, err
		}
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	return s, nil
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().Timestamp().Logger()
}

// environment bundles what every command needs.
type environment struct {
	settings settings.Settings
	logger   zerolog.Logger
	patcher  *gradlepatch.Patcher
}

func setup(cmd *cobra.Command) (*environment, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), s.LogLevel)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &environment{
		settings: s,
		logger:   logger,
		patcher: &gradlepatch.Patcher{
			Keys:   credential.New(s.CredentialEndpoint, logger.With().Str("component", "credential").Logger()),
			Logger: logger,
			DryRun: dryRun,
		},
	}, nil
}

func printDiff(w io.Writer, out gradlepatch.Outcome) {
	if dryRun && out.Diff != "" {
		fmt.Fprint(w, out.Diff)
	}
}
