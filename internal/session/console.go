package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/dshills/rx/internal/integration/process"
)

// ProcessSession runs its own R console in a pseudo terminal and types
// lines into it. The console starts on first use and is restarted if it
// has exited.
type ProcessSession struct {
	command []string
	output  io.Writer
	timeout time.Duration
	supOpts []process.SupervisorOption

	sup *process.Supervisor

	mu     sync.Mutex
	proc   *process.Process
	copied chan struct{}
	closed bool
}

// ConsoleOption configures a ProcessSession.
type ConsoleOption func(*ProcessSession)

// WithConsoleOutput sets where console output is copied. Nil discards it.
func WithConsoleOutput(w io.Writer) ConsoleOption {
	return func(p *ProcessSession) {
		p.output = w
	}
}

// WithShutdownTimeout sets how long Close waits before killing the
// console.
func WithShutdownTimeout(d time.Duration) ConsoleOption {
	return func(p *ProcessSession) {
		p.timeout = d
	}
}

// WithConsoleSize sets the terminal size the console starts with.
func WithConsoleSize(rows, cols uint16) ConsoleOption {
	return func(p *ProcessSession) {
		p.supOpts = append(p.supOpts, process.WithWindowSize(rows, cols))
	}
}

// WithConsoleExit registers fn to run with the exit code whenever the
// console exits, including on Close.
func WithConsoleExit(fn func(code int)) ConsoleOption {
	return func(p *ProcessSession) {
		p.supOpts = append(p.supOpts, process.WithProcessExitCallback(func(proc *process.Process) {
			fn(proc.ExitCode())
		}))
	}
}

// NewProcessSession returns a transport running command, e.g.
// ["R", "--no-save", "--quiet"].
func NewProcessSession(command []string, opts ...ConsoleOption) *ProcessSession {
	p := &ProcessSession{
		command: command,
		output:  io.Discard,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sup = process.NewSupervisor(p.supOpts...)
	if p.output == nil {
		p.output = io.Discard
	}
	return p
}

// Name implements Transport.
func (p *ProcessSession) Name() string { return "process" }

// Send types each line into the console.
func (p *ProcessSession) Send(ctx context.Context, lines []string) error {
	proc, err := p.console()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := proc.WriteLine(line); err != nil {
			return fmt.Errorf("write to %s: %w", proc.Name, err)
		}
	}
	return nil
}

// Activate starts the console if it is not running.
func (p *ProcessSession) Activate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.console()
	return err
}

// Running reports whether the console is up.
func (p *ProcessSession) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.proc != nil && p.proc.IsRunning()
}

// Close stops the console and waits for its output to drain.
func (p *ProcessSession) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	proc, copied := p.proc, p.copied
	p.mu.Unlock()

	p.sup.Shutdown(p.timeout)
	if proc != nil {
		_ = proc.Close()
		<-copied
	}
	return nil
}

// console returns the running console, starting one if needed.
func (p *ProcessSession) console() (*process.Process, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if p.proc != nil && p.proc.IsRunning() {
		return p.proc, nil
	}
	if len(p.command) == 0 {
		return nil, errors.New("no console command configured")
	}
	if p.proc != nil {
		_ = p.proc.Close()
		<-p.copied
	}

	cmd := exec.Command(p.command[0], p.command[1:]...)
	proc, err := p.sup.Start(p.command[0], cmd)
	if err != nil {
		return nil, fmt.Errorf("start console: %w", err)
	}

	copied := make(chan struct{})
	go func() {
		defer close(copied)
		// Reads end with EIO once the console exits; that is the normal
		// end of output.
		_, _ = io.Copy(p.output, proc)
	}()

	p.proc = proc
	p.copied = copied
	return proc, nil
}
