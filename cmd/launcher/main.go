package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fraudguard-launcher/internal/cfg"
	"fraudguard-launcher/internal/health"
	"fraudguard-launcher/internal/interp"
	"fraudguard-launcher/internal/launch"
	"fraudguard-launcher/internal/metrics"
	"fraudguard-launcher/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const readyInterval = 500 * time.Millisecond

func main() {
	os.Exit(run())
}

func run() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c, err := cfg.Load(launcherDir())
	if err != nil {
		log.Error().Err(err).Msg("config load failed")
		return 1
	}
	setupLogging(c.LogLevel)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	python, source := interp.NewDetector(c.Interpreter).Detect(ctx)
	log.Info().Str("python", python).Str("source", string(source)).Msg("interpreter resolved")

	argv := launch.BuildCommand(python, c.AppPath, c.Port)
	l := launch.New(argv, launch.ChildEnv(os.Environ(), c), c.Port, launch.NewExecRunner())

	m := metrics.New()
	mw := metrics.NewWrapper(m)
	l.SetMetrics(mw)

	auxCtx, cancelAux := context.WithCancel(context.Background())
	defer cancelAux()
	startMetricsServer(auxCtx, c)

	if store := initializeStorage(c); store != nil {
		defer store.Close()
		l.SetHistory(store)
	}

	if c.ReadyCheck {
		prober := health.NewProber(health.LocalURL(c.Port), readyInterval, c.ReadyTimeout, mw)
		l.SetWatcher(prober.Watch)
	}

	if err := l.Run(ctx); err != nil {
		code := launch.ExitCode(err)
		log.Error().Err(err).Int("exit_code", code).Msg("dashboard failed")
		return code
	}
	return 0
}

// launcherDir is the directory holding the launcher binary; the dashboard
// entry-point and the default .env are looked up next to it.
func launcherDir() string {
	exe, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("cannot locate launcher binary, using working directory")
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// initializeStorage opens the launch history if DATA_PATH is configured
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without history")
		return nil
	}
	return store
}

// startMetricsServer starts the Prometheus metrics HTTP server when METRICS_PORT is set
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	if c.MetricsPort == 0 {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, c.MetricsPort, prometheus.DefaultGatherer); err != nil {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}
