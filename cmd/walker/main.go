package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Versifine/walker/internal/asset"
	"github.com/Versifine/walker/internal/config"
	"github.com/Versifine/walker/internal/debug"
	"github.com/Versifine/walker/internal/event"
	"github.com/Versifine/walker/internal/game"
	"github.com/Versifine/walker/internal/input"
	"github.com/Versifine/walker/internal/logger"
	"github.com/Versifine/walker/internal/scene"
	"github.com/Versifine/walker/internal/spectate"
	"github.com/Versifine/walker/internal/window"
)

func init() {
	// GLFW calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logCfg := logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	logFile := cfg.Logging.File
	if logFile == "" && cfg.Host.Mode == config.HostConsole {
		// the console status line owns stdout
		logFile = "logs/walker.log"
	}
	if logFile != "" {
		f, err := logger.OpenFile(logFile)
		if err != nil {
			slog.Error("Failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := scene.New(scene.Variant(cfg.Variant), cfg.Host.Width, cfg.Host.Height)
	if err != nil {
		slog.Error("Failed to build scene", "error", err)
		os.Exit(1)
	}
	if grid, ok := sc.Ground.(*scene.BlockGrid); ok {
		slog.Info("Block grid built", "blocks", grid.Count())
	}
	params := sc.Params()
	if cfg.Controls.Sensitivity > 0 {
		params.Sensitivity = cfg.Controls.Sensitivity
	}

	collector := input.NewCollector(input.Bindings{
		Forward: cfg.Controls.Forward,
		Back:    cfg.Controls.Back,
		Left:    cfg.Controls.Left,
		Right:   cfg.Controls.Right,
		Jump:    cfg.Controls.Jump,
	})
	bus := event.NewBus()
	pending := asset.NewFileLoader(cfg.Asset.Root).Load(ctx, cfg.Asset.Model)
	session := game.NewSession(sc, collector, bus, params, pending)

	bus.Subscribe(event.EventPlayerJump, func(raw any) {
		if e, ok := raw.(*event.PlayerEvent); ok {
			slog.Debug("player jumped", "frame", e.Frame, "y", e.Y)
		}
	})
	bus.Subscribe(event.EventPlayerLand, func(raw any) {
		if e, ok := raw.(*event.PlayerEvent); ok {
			slog.Debug("player landed", "frame", e.Frame, "y", e.Y)
		}
	})

	if cfg.Spectate.Enabled {
		srv := spectate.NewServer(cfg.Spectate.Listen, bus)
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error("Spectate server stopped", "error", err)
			}
		}()
	}

	slog.Info("walker starting", "variant", cfg.Variant, "host", cfg.Host.Mode, "model", cfg.Asset.Model)

	switch cfg.Host.Mode {
	case config.HostWindow:
		err = runWindow(ctx, cfg, session, session.Input())
	case config.HostConsole:
		err = runConsole(ctx, cfg, session, session.Input())
	default:
		err = session.Run(ctx, cfg.Host.TickRate)
	}
	if err != nil {
		slog.Error("Host stopped with error", "error", err)
		os.Exit(1)
	}
}

func runWindow(ctx context.Context, cfg *config.Config, session *game.Session, collector *input.Collector) error {
	w, err := window.New(window.Options{
		Width:  cfg.Host.Width,
		Height: cfg.Host.Height,
		Title:  cfg.Host.Title,
		VSync:  cfg.Host.VSync,
	}, session, collector)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx)
}

func runConsole(ctx context.Context, cfg *config.Config, session *game.Session, collector *input.Collector) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Run(ctx, cfg.Host.TickRate)
	}()

	err := debug.NewConsole(session, collector).Start(ctx)
	cancel()
	if runErr := <-errCh; err == nil {
		err = runErr
	}
	return err
}
