// Package cmd implements the cognomegafx command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
	"github.com/Bharath-kolekar/cognomegafxg/internal/config"
	"github.com/Bharath-kolekar/cognomegafxg/internal/prefs"
)

var (
	flagAPIBase  string
	flagSettings string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "cognomegafx",
	Short: "Command-line client for the CognoMega speech backend",
	Long: `cognomegafx is a command-line client for the CognoMega speech
backend. It synthesizes speech from text or documents, manages voice
and engine preferences, records microphone audio for transcription and
monitors backend liveness.

Commands:
  speak       - Synthesize a short text into a playable clip
  read        - Clean a document and synthesize it in chunks
  voices      - List the voices the backend offers
  transcribe  - Transcribe a recording or an audio file
  health      - Check backend reachability
  prefs       - Inspect and change saved preferences`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIBase, "api", "",
		"Backend base URL (overrides the saved preference)")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "",
		"Settings file path (default: ~/.config/cognomegafx/settings.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Verbose output")
}

// app bundles the wiring shared by every subcommand: logger, loaded
// configuration, preference store and backend client.
type app struct {
	log    *logger.Logger
	cfg    *config.Config
	prefs  *prefs.Store
	client *backend.Client
}

func setupLogger(logPath, fileName string) (*logger.Logger, error) {
	log, err := logger.New(logPath, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// newApp performs the startup sequence: bootstrap logger, configuration,
// final logger, preference store, backend client. A missing configuration
// file is not fatal for a client; the documented defaults apply.
func newApp() (*app, error) {
	bootstrapLog, err := setupLogger(os.TempDir(), "cognomegafx-bootstrap.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return nil, err
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Warn("No configuration loaded, using defaults: %v", err)

		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	logsDir := cfg.Paths.BaseLogsDir
	if logsDir == "" {
		logsDir = os.TempDir()
	}

	finalLog, err := setupLogger(logsDir, "cognomegafx.log")
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return nil, err
	}

	closeErr := bootstrapLog.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "error closing bootstrap logger: %v\n", closeErr)
	}

	store, err := openPrefs(cfg)
	if err != nil {
		finalLog.Error("Failed to open preference store: %v", err)

		return nil, err
	}

	if flagAPIBase != "" {
		// An explicit base URL becomes the saved preference for later runs.
		saveErr := store.Set(prefs.KeyAPIBase, strings.TrimRight(flagAPIBase, "/"))
		if saveErr != nil {
			finalLog.Warn("Failed to save backend URL preference: %v", saveErr)
		}
	}

	client := backend.NewClient(resolveBaseURL(store, cfg), cfg.Backend.Timeout())

	if verbose {
		finalLog.System("Client initialized (backend %s, timeout %s)",
			cfg.Backend.URL, cfg.Backend.Timeout())
	}

	return &app{
		log:    finalLog,
		cfg:    cfg,
		prefs:  store,
		client: client,
	}, nil
}

// savePref writes a preference back; persistence failures are logged,
// never fatal for the action in flight.
func (a *app) savePref(key prefs.Key, value any) {
	err := a.prefs.Set(key, value)
	if err != nil {
		a.log.Warn("Failed to save preference %s: %v", key, err)
	}
}

func (a *app) Close() {
	closeErr := a.log.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
	}
}

// openPrefs resolves the settings file path, most specific source first:
// the --settings flag, the configuration, then the per-user default.
func openPrefs(cfg *config.Config) (*prefs.Store, error) {
	path := flagSettings
	if path == "" {
		path = cfg.Paths.SettingsPath
	}

	if path == "" {
		defaultPath, err := prefs.DefaultSettingsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve settings path: %w", err)
		}

		path = defaultPath
	}

	sub, err := prefs.NewFileSubstrate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}

	return prefs.New(sub), nil
}

// resolveBaseURL builds the per-call URL resolver for the backend client.
// The --api flag wins over the saved preference, which wins over the
// configured default.
func resolveBaseURL(store *prefs.Store, cfg *config.Config) backend.BaseURLFunc {
	return func() string {
		if flagAPIBase != "" {
			return strings.TrimRight(flagAPIBase, "/")
		}

		return store.BaseURL(cfg.Backend.URL)
	}
}
