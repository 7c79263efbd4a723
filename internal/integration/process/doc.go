// Package process runs long-lived interpreter consoles inside pseudo
// terminals.
//
// An interactive R (or any REPL) only behaves like a console when its
// standard streams are a terminal: it prints prompts, echoes input and
// keeps reading after an error. The Supervisor starts each console on
// the slave side of a pty and hands back a Process that owns the master
// side.
//
// # Supervisor
//
//	sup := process.NewSupervisor()
//	defer sup.Shutdown(5 * time.Second)
//
//	proc, err := sup.Start("R", exec.Command("R", "--no-save", "--quiet"))
//	if err != nil {
//	    return err
//	}
//	go io.Copy(os.Stdout, proc)
//	_, err = proc.WriteLine("summary(cars)")
//
// Consoles that exit on their own are removed from the supervisor. The
// exit code and state remain available on the Process.
//
// # Shutdown
//
// Shutdown sends SIGTERM to every console, waits up to the timeout and
// then sends SIGKILL to whatever is still running.
//
// Both Supervisor and Process are safe for concurrent use.
package process
