package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// State represents the state of a process.
type State int

const (
	// StateCreated indicates the process has not been started.
	StateCreated State = iota
	// StateRunning indicates the process is running.
	StateRunning
	// StateExited indicates the process exited on its own.
	StateExited
	// StateKilled indicates the process was killed by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Process is a console running on a pseudo terminal.
//
// Reads return what the console prints, writes are typed into it.
type Process struct {
	// ID is the unique identifier for this process.
	ID string

	// Name is a human-readable name for the process.
	Name string

	// Cmd is the underlying command.
	Cmd *exec.Cmd

	// Started is the time the process was started.
	Started time.Time

	tty *os.File

	// writeMu keeps concurrent WriteLine calls from interleaving.
	writeMu sync.Mutex

	done     chan struct{}
	state    atomic.Int32
	exitCode atomic.Int32

	waitOnce sync.Once
}

// NewProcess wraps cmd. The command must not have been started.
func NewProcess(id, name string, cmd *exec.Cmd) *Process {
	p := &Process{
		ID:   id,
		Name: name,
		Cmd:  cmd,
		done: make(chan struct{}),
	}
	p.state.Store(int32(StateCreated))
	p.exitCode.Store(-1)
	return p
}

// State returns the current process state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// ExitCode returns the exit code. It is -1 before exit and after death
// by signal.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// Done returns a channel that is closed when the process exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// IsRunning reports whether the process is running.
func (p *Process) IsRunning() bool {
	return p.State() == StateRunning
}

// Read reads console output.
func (p *Process) Read(b []byte) (int, error) {
	if p.tty == nil {
		return 0, ErrProcessNotStarted
	}
	return p.tty.Read(b)
}

// Write types b into the console.
func (p *Process) Write(b []byte) (int, error) {
	if !p.IsRunning() || p.tty == nil {
		return 0, ErrProcessNotStarted
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.tty.Write(b)
}

// WriteLine types line followed by a newline.
func (p *Process) WriteLine(line string) (int, error) {
	return p.Write([]byte(line + "\n"))
}

// Signal sends sig to the process.
func (p *Process) Signal(sig os.Signal) error {
	if !p.IsRunning() || p.Cmd.Process == nil {
		return fmt.Errorf("signal %v: %w", sig, ErrProcessNotStarted)
	}
	return p.Cmd.Process.Signal(sig)
}

// Terminate sends SIGTERM.
func (p *Process) Terminate() error {
	return p.Signal(syscall.SIGTERM)
}

// Kill sends SIGKILL.
func (p *Process) Kill() error {
	return p.Signal(syscall.SIGKILL)
}

// start starts the command on a new pty.
func (p *Process) start(size *pty.Winsize) error {
	if p.State() != StateCreated {
		return ErrProcessAlreadyStarted
	}

	tty, err := pty.StartWithSize(p.Cmd, size)
	if err != nil {
		return fmt.Errorf("start %s: %w", p.Name, err)
	}

	p.tty = tty
	p.Started = time.Now()
	p.state.Store(int32(StateRunning))

	go p.waitLoop()
	return nil
}

func (p *Process) waitLoop() {
	p.waitOnce.Do(func() {
		err := p.Cmd.Wait()

		exitCode := 0
		state := StateExited
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
				if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
					state = StateKilled
				}
			} else {
				exitCode = -1
			}
		}

		p.exitCode.Store(int32(exitCode))
		p.state.Store(int32(state))
		close(p.done)
	})
}

// Close closes the terminal. It does not stop the process.
func (p *Process) Close() error {
	if p.tty == nil {
		return nil
	}
	if err := p.tty.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close terminal: %w", err)
	}
	return nil
}
