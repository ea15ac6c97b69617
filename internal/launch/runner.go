package launch

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner executes argv as a child process and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, argv, env []string) error
}

// ExecRunner runs the child in the foreground with the given streams. When
// ctx is cancelled the child is sent an interrupt and, after WaitDelay,
// killed.
type ExecRunner struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	WaitDelay time.Duration
}

// NewExecRunner returns a runner wired to the launcher's own stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		WaitDelay: 10 * time.Second,
	}
}

func (r *ExecRunner) Run(ctx context.Context, argv, env []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.WaitDelay = r.WaitDelay
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	log.Debug().Int("pid", cmd.Process.Pid).Str("cmd", argv[0]).Msg("child started")

	return cmd.Wait()
}
