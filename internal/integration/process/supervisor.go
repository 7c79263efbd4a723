package process

import (
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

// Supervisor starts consoles and stops them on shutdown.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process

	closed atomic.Bool
	size   pty.Winsize

	onProcessExit func(p *Process)
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithWindowSize sets the terminal size new consoles start with.
func WithWindowSize(rows, cols uint16) SupervisorOption {
	return func(s *Supervisor) {
		s.size = pty.Winsize{Rows: rows, Cols: cols}
	}
}

// WithProcessExitCallback sets a callback run when a console exits.
func WithProcessExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) {
		s.onProcessExit = fn
	}
}

// NewSupervisor creates a supervisor. Consoles start 24x80 unless
// WithWindowSize says otherwise.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
		size:      pty.Winsize{Rows: 24, Cols: 80},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts cmd on a new pty. The Process gets a random ID.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	proc := NewProcess(uuid.New().String(), name, cmd)
	size := s.size
	if err := proc.start(&size); err != nil {
		return nil, err
	}

	s.processes[proc.ID] = proc
	go s.monitorProcess(proc)

	return proc, nil
}

func (s *Supervisor) monitorProcess(proc *Process) {
	<-proc.Done()

	if s.onProcessExit != nil {
		func() {
			defer func() { _ = recover() }()
			s.onProcessExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	s.mu.Unlock()
}

// list returns the running consoles.
func (s *Supervisor) list() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		result = append(result, p)
	}
	return result
}

// Count returns the number of running consoles.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// Shutdown terminates every console, waits up to timeout, then kills the
// rest. It returns once all consoles are gone and their terminals closed.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	procs := s.list()
	if len(procs) == 0 {
		return
	}

	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Terminate()
		}
	}

	done := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.Done()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, p := range procs {
			if p.IsRunning() {
				_ = p.Kill()
			}
		}
		<-done
	}

	for _, p := range procs {
		_ = p.Close()
	}
	s.waitForCleanup()
}

// waitForCleanup waits for the monitors to drop every process.
func (s *Supervisor) waitForCleanup() {
	for s.Count() > 0 {
		time.Sleep(time.Millisecond)
	}
}
