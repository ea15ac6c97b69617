package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"fraudguard-launcher/internal/common"

	"github.com/rs/zerolog/log"
)

// MetricsInterface receives launch lifecycle events.
type MetricsInterface interface {
	LaunchesInc()
	ChildFailuresInc()
	InterruptsInc()
	ChildExitCodeSet(v float64)
	ChildUptimeObserve(v float64)
}

// History persists one record per launch.
type History interface {
	Begin(argv []string, port string) (uint64, error)
	Finish(id uint64, exitCode int, interrupted bool, runErr error) error
}

// Watcher runs alongside the child and must return once ctx is done.
type Watcher func(ctx context.Context)

// Launcher runs a single dashboard invocation.
type Launcher struct {
	argv    []string
	env     []string
	port    string
	runner  Runner
	out     io.Writer
	metrics MetricsInterface
	history History
	watcher Watcher
}

func New(argv, env []string, port string, r Runner) *Launcher {
	return &Launcher{
		argv:   argv,
		env:    env,
		port:   port,
		runner: r,
		out:    os.Stdout,
	}
}

// SetOutput sets where the shutdown and error notices are printed.
func (l *Launcher) SetOutput(w io.Writer) { l.out = w }

func (l *Launcher) SetMetrics(m MetricsInterface) { l.metrics = m }

func (l *Launcher) SetHistory(h History) { l.history = h }

// SetWatcher registers a function that runs while the child is alive.
func (l *Launcher) SetWatcher(w Watcher) { l.watcher = w }

// Argv returns a copy of the command line the launcher will execute.
func (l *Launcher) Argv() []string {
	return append([]string(nil), l.argv...)
}

// Run starts the child and waits for it. A cancelled ctx is treated as a
// user interrupt: the shutdown notice is printed and nil is returned. Any
// other failure, a non-zero exit included, is printed and returned.
func (l *Launcher) Run(ctx context.Context) error {
	if l.metrics != nil {
		l.metrics.LaunchesInc()
	}
	id, recorded := l.begin()

	log.Info().Strs("argv", l.argv).Str("port", l.port).Msg("launching dashboard")

	watchCtx, stopWatch := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if l.watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.watcher(watchCtx)
		}()
	}

	start := time.Now()
	err := l.runner.Run(ctx, l.argv, l.env)
	uptime := time.Since(start)

	stopWatch()
	wg.Wait()

	if ctx.Err() != nil {
		fmt.Fprintln(l.out, common.MsgShuttingDown)
		log.Info().Dur("uptime", uptime).AnErr("child_err", err).Msg("dashboard interrupted")
		l.observe(uptime, 0)
		if l.metrics != nil {
			l.metrics.InterruptsInc()
		}
		l.finish(id, recorded, 0, true, nil)
		return nil
	}

	code := ExitCode(err)
	l.observe(uptime, code)
	if err != nil {
		fmt.Fprintf(l.out, common.MsgRunErrorFmt+"\n", err)
		if l.metrics != nil {
			l.metrics.ChildFailuresInc()
		}
		l.finish(id, recorded, code, false, err)
		return fmt.Errorf("run dashboard: %w", err)
	}

	log.Info().Dur("uptime", uptime).Msg("dashboard exited")
	l.finish(id, recorded, 0, false, nil)
	return nil
}

func (l *Launcher) observe(uptime time.Duration, code int) {
	if l.metrics == nil {
		return
	}
	l.metrics.ChildUptimeObserve(uptime.Seconds())
	l.metrics.ChildExitCodeSet(float64(code))
}

func (l *Launcher) begin() (uint64, bool) {
	if l.history == nil {
		return 0, false
	}
	id, err := l.history.Begin(l.argv, l.port)
	if err != nil {
		log.Warn().Err(err).Msg("failed to record launch, continuing without history")
		return 0, false
	}
	return id, true
}

func (l *Launcher) finish(id uint64, recorded bool, code int, interrupted bool, runErr error) {
	if !recorded {
		return
	}
	if err := l.history.Finish(id, code, interrupted, runErr); err != nil {
		log.Warn().Err(err).Uint64("run", id).Msg("failed to record launch outcome")
	}
}
