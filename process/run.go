package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

const defaultGracePeriod = 5 * time.Second

// Run starts cmd and waits for it. Output is captured in the Result and,
// when cmd.Stdout or cmd.Stderr are set, copied there as it arrives.
// Cancelling ctx sends SIGTERM to the whole process group and SIGKILL once
// the grace period has passed. A Result is returned whenever the process
// was started, even on error.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, errors.New("process: binary is required")
	}

	var stdout, stderr bytes.Buffer
	c := cmd.build(ctx, &stdout, &stderr)

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("process: %s stopped: %w", cmd.Binary, ctx.Err())
	default:
		return res, fmt.Errorf("process: %s exited with code %d: %w", cmd.Binary, res.ExitCode, err)
	}
}

func (cmd Command) build(ctx context.Context, stdout, stderr *bytes.Buffer) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running task commands is the point
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	c.Stdout = tee(stdout, cmd.Stdout)
	c.Stderr = tee(stderr, cmd.Stderr)

	// Shell scripts fork; the whole group has to go.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.GracePeriod
	if c.WaitDelay <= 0 {
		c.WaitDelay = defaultGracePeriod
	}
	return c
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
