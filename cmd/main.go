package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"moveit/internal/core/challenges"
	"moveit/internal/logging"
	"moveit/internal/platform"
	"moveit/internal/storage"
	"moveit/internal/ui/preferences"
	"moveit/resources"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "MoveIt"

var (
	verbose           bool
	configDir         string
	countdownOverride time.Duration
	background        bool
)

var rootCmd = &cobra.Command{
	Use:   "moveit",
	Short: "MoveIt - movement and eye-rest challenges between focus cycles",
	Long: `MoveIt runs a focus countdown. When it ends you get a random body or eye
challenge; completing it earns experience and levels you up.

Run without arguments to start the desktop app in the system tray.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop(cmd.Context())
	},
}

var terminalCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run MoveIt in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTerminal(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the saved level and experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStatus(cmd)
	},
}

var resetProgressCmd = &cobra.Command{
	Use:   "reset-progress",
	Short: "Delete the saved level and experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetProgress(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "override the configuration directory")
	rootCmd.PersistentFlags().DurationVar(&countdownOverride, "countdown", 0, "override the cycle length for this run (e.g. 30s, 25m)")
	rootCmd.Flags().BoolVar(&background, "background", false, "start hidden in the system tray")

	rootCmd.AddCommand(terminalCmd, statusCmd, resetProgressCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// environment holds what every command needs: paths, settings, saved progress and a logger.
type environment struct {
	logger   *zap.Logger
	paths    storage.Paths
	platform platform.Service
	settings preferences.Settings
	store    *storage.ProgressStore
	catalog  challenges.Catalog
}

// bootstrap prepares the environment. Terminal mode logs to a file so the screen stays clean.
func bootstrap(logToFile bool) (*environment, error) {
	service := platform.NewService()
	baseDir := configDir
	if baseDir == "" {
		dir, err := service.GetConfigDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	paths := storage.NewPaths(baseDir, appName)

	var logOutputs []string
	if logToFile {
		if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config directory: %w", err)
		}
		logOutputs = []string{filepath.Join(paths.Dir, "moveit.log")}
	}
	logger, err := logging.New("moveit", logging.Options{Verbose: verbose, OutputPaths: logOutputs})
	if err != nil {
		return nil, err
	}

	settings, err := storage.LoadSettings(paths.Settings())
	if err != nil {
		logger.Warn("settings partially loaded, using defaults", zap.String("path", paths.Settings()), zap.Error(err))
	}
	if countdownOverride > 0 {
		settings.CountdownDuration = countdownOverride
		if err := settings.Validate(); err != nil {
			_ = logger.Sync()
			return nil, err
		}
	}

	store, err := storage.OpenProgressStore(paths.Progress())
	if err != nil {
		logger.Warn("saved progress unreadable, starting fresh", zap.String("path", paths.Progress()), zap.Error(err))
	}

	catalog, err := challenges.ParseCatalog(resources.ChallengesJSON())
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &environment{
		logger:   logger,
		paths:    paths,
		platform: service,
		settings: settings,
		store:    store,
		catalog:  catalog,
	}, nil
}

// applyAutostart mirrors the launch-at-login setting into the OS.
func (env *environment) applyAutostart(enabled bool) {
	execPath, err := os.Executable()
	if err != nil {
		env.logger.Warn("resolve executable", zap.Error(err))
		return
	}
	entry := platform.LaunchEntry{Name: appName, ExecPath: execPath, Args: []string{"--background"}}
	if err := platform.SetAutostart(env.platform, entry, enabled); err != nil && !errors.Is(err, platform.ErrInvalidEntry) {
		env.logger.Warn("update autostart", zap.Bool("enabled", enabled), zap.Error(err))
	}
}
