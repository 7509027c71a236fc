package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory, or
	// the Runner's Dir when run through a Runner.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout and Stderr, when set, receive the output as it is produced in
	// addition to the copy captured in Result.
	Stdout io.Writer
	Stderr io.Writer
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// Shell builds a command that runs script with the given shell's -c flag.
func Shell(shell, script string) Command {
	return Command{Binary: shell, Args: []string{"-c", script}}
}
