package util

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var ErrCommandTimeout = errors.New("command timed out")

// SafeCmdExecution runs the executable and returns its trimmed stdout.
// The process is killed once timeout has passed.
func SafeCmdExecution(executable string, args []string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w after %s: %s", ErrCommandTimeout, timeout, executable)
	}
	if err != nil {
		return "", fmt.Errorf("command %s failed: %w", executable, err)
	}

	return strings.Trim(string(out), "\n"), nil
}
