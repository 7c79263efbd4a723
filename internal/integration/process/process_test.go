package process

import (
	"bufio"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{StateKilled, "killed"},
		{State(99), "unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewProcess(t *testing.T) {
	p := NewProcess("id-1", "R", exec.Command("R"))

	if p.State() != StateCreated {
		t.Errorf("State() = %v, want created", p.State())
	}
	if p.ExitCode() != -1 {
		t.Errorf("ExitCode() = %d, want -1", p.ExitCode())
	}
	if !p.Started.IsZero() {
		t.Errorf("Started = %v, want zero", p.Started)
	}
}

func TestProcess_NotStarted(t *testing.T) {
	p := NewProcess("id-1", "R", exec.Command("R"))

	if _, err := p.WriteLine("1 + 1"); !errors.Is(err, ErrProcessNotStarted) {
		t.Errorf("WriteLine err = %v, want ErrProcessNotStarted", err)
	}
	if _, err := p.Read(make([]byte, 8)); !errors.Is(err, ErrProcessNotStarted) {
		t.Errorf("Read err = %v, want ErrProcessNotStarted", err)
	}
	if err := p.Terminate(); !errors.Is(err, ErrProcessNotStarted) {
		t.Errorf("Terminate err = %v, want ErrProcessNotStarted", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close err = %v, want nil", err)
	}
}

func TestProcess_Console(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	proc, err := s.Start("cat", exec.Command("cat"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	found := make(chan bool, 1)
	go func() {
		sc := bufio.NewScanner(proc)
		for sc.Scan() {
			if strings.Contains(sc.Text(), "x <- 42") {
				found <- true
				return
			}
		}
		found <- false
	}()

	if _, err := proc.WriteLine("x <- 42"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}

	select {
	case ok := <-found:
		if !ok {
			t.Error("console output ended before the typed line appeared")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for console output")
	}
}

func TestProcess_ExitCode(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	proc, err := s.Start("exit", exec.Command("sh", "-c", "exit 3"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for exit")
	}

	if proc.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", proc.ExitCode())
	}
	if proc.State() != StateExited {
		t.Errorf("State() = %v, want exited", proc.State())
	}
	if _, err := proc.WriteLine("late"); !errors.Is(err, ErrProcessNotStarted) {
		t.Errorf("WriteLine after exit err = %v, want ErrProcessNotStarted", err)
	}
}

func TestProcess_Kill(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	proc, err := s.Start("sleep", exec.Command("sleep", "10"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !proc.IsRunning() {
		t.Fatal("expected process to be running")
	}
	if proc.Started.IsZero() {
		t.Error("Started not set")
	}

	if err := proc.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}

	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for kill")
	}

	if proc.State() != StateKilled {
		t.Errorf("State() = %v, want killed", proc.State())
	}
	if proc.IsRunning() {
		t.Error("IsRunning() = true after kill")
	}
}
