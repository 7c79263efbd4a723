// Package session delivers lines of code to an interactive R session.
//
// Each Transport reaches the session a different way:
//
//   - AppleScript tells a macOS R.app (or R64) window to run each line.
//   - Tmux types each line into a tmux pane.
//   - Screen stuffs each line into a GNU screen session.
//   - ProcessSession owns an R console in a pseudo terminal.
//
// New picks the transport named in the settings, resolving "auto" from
// the platform. Transports that shell out do so through a Runner so
// tests can record the command lines instead of running them.
package session
