// Package main is the entry point for rx, which sends R code from an
// editor buffer to a running R session.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/rx/internal/app"
	"github.com/dshills/rx/internal/config"
	"github.com/dshills/rx/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, session.ErrUnsupportedPlatform) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "rx drives R.app through AppleScript on macOS; elsewhere run it inside tmux or set a transport.")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// cli holds global flag values and the streams commands use.
type cli struct {
	configPath string
	logLevel   string
	transport  string
	logJSON    bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "rx",
		Short: "Send R code from an editor buffer to an R session",
		Long: `rx collects the R code under the cursors or selections of an editor
buffer, skipping anything outside R source (markdown prose, LaTeX), and
types it into an R console: R.app on macOS, a tmux pane, a GNU screen
session, or a console rx starts itself.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("rx {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to settings file (toml, yaml or json)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&c.transport, "transport", "t", "", "session transport (auto, applescript, tmux, screen, process)")
	flags.BoolVar(&c.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newSendCmd(c),
		newJumpCmd(c),
		newScopesCmd(c),
		newServeCmd(c),
		newVersionCmd(c),
	)
	return root
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.stdout, "rx %s\n", version)
			fmt.Fprintf(c.stdout, "Commit: %s\n", commit)
			fmt.Fprintf(c.stdout, "Built: %s\n", date)
		},
	}
}

// configOptions maps the global flags onto config.Options.
func (c *cli) configOptions(cmd *cobra.Command) config.Options {
	opts := config.Options{Path: c.configPath, Overrides: map[string]any{}}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		opts.Overrides[config.KeyLogLevel] = c.logLevel
	}
	if flags.Changed("transport") {
		opts.Overrides[config.KeyTransport] = c.transport
	}
	return opts
}

// settings loads settings and installs the process logger.
func (c *cli) settings(cmd *cobra.Command) (config.Settings, config.Options, error) {
	opts := c.configOptions(cmd)
	s, err := config.Load(opts)
	if err != nil {
		return config.Settings{}, opts, err
	}

	app.SetLogger(app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(s.LogLevel),
		Output: c.stderr,
		Prefix: "rx",
		JSON:   c.logJSON,
	}))
	return s, opts, nil
}

// application builds an Application from the loaded settings. Console
// output of the process transport goes to consoleOut.
func (c *cli) application(cmd *cobra.Command, consoleOut io.Writer) (*app.Application, config.Options, error) {
	s, opts, err := c.settings(cmd)
	if err != nil {
		return nil, opts, err
	}
	logger := app.GetLogger()
	consoleLog := logger.WithComponent("console")
	a, err := app.New(cmd.Context(), app.Options{
		Settings: s,
		Logger:   logger,
		SessionOptions: []session.Option{
			session.WithOutput(consoleOut),
			session.WithConsoleOptions(session.WithConsoleExit(func(code int) {
				// -1 means it was stopped by a signal, which is how Close ends it.
				if code > 0 {
					consoleLog.Warn("R console exited with status %d", code)
					return
				}
				consoleLog.Debug("R console exited (%d)", code)
			})),
		},
	})
	return a, opts, err
}
