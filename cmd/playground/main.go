package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"Playground3D/internal/config"
	"Playground3D/internal/engine"
	"Playground3D/internal/engine/window"
	"Playground3D/internal/loader"
	"Playground3D/internal/logger"
	"Playground3D/internal/playground"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	assetDir   string
	debug      bool
	watch      bool
)

// glfw requires the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "playground",
		Short: "drag the gopher and its weapons around a small physics scene",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logger.InitDebug()
			} else {
				logger.Init()
			}
		},
		RunE: runPlayground,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&assetDir, "assets", "", "asset directory (defaults to the scene file's directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose development logging")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload drag sensitivity and gravity when the scene file changes")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open the playground window",
		RunE:  runPlayground,
	}
	runCmd.Flags().BoolVar(&watch, "watch", false, "reload drag sensitivity and gravity when the scene file changes")

	validateCmd := &cobra.Command{
		Use:   "validate [scene.yaml]",
		Short: "check a scene file and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			cfg.Summary(cmd.OutOrStdout())
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd)

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveAssetDir() string {
	if assetDir != "" {
		return assetDir
	}
	if configFile != "" {
		return filepath.Dir(configFile)
	}
	return "assets"
}

func runPlayground(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := loader.NewFileSource(resolveAssetDir())
	defer source.Close()
	p := playground.New(cfg, source)

	var reloads <-chan *config.Config
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		w, err := config.NewWatcher(configFile)
		if err != nil {
			return fmt.Errorf("watch %s: %w", configFile, err)
		}
		defer w.Close()
		reloads = w.Reloads()
		p.Loop.WatchConfig(reloads)
		logger.Log.Info("Watching scene file", zap.String("path", configFile))
	}

	gopher := window.NewGopher(p.Loop, int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	gopher.VSync = cfg.Window.VSync
	gopher.OnReset = func() *engine.FrameLoop {
		if fresh, err := loadConfig(configFile); err != nil {
			logger.Log.Warn("Reset keeps the previous scene file", zap.Error(err))
		} else {
			cfg = fresh
		}
		p = p.Rebuild(cfg, source, gopher.RemoveModel)
		p.Loop.WatchConfig(reloads)
		return p.Loop
	}
	return gopher.Run(ctx)
}
