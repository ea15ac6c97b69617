package launch

import (
	"errors"
	"os/exec"
)

// ExitCode maps the result of Launcher.Run to a process exit status: 0 for
// success or a graceful interrupt, the child's own status when it exited
// non-zero, and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
