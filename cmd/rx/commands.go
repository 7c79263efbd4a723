package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/rx/internal/app"
	"github.com/dshills/rx/internal/engine/cursor"
)

func newSendCmd(c *cli) *cobra.Command {
	var (
		file       string
		selections []string
		fromStdin  bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the code under the given selections to R",
		Long: `Send collects the lines under each cursor, or the text of each
selection, that lies in R source and sends it to the session. The
response, including where the editor should put its selection
afterwards, is printed as JSON.`,
		Example: `  rx send --file analysis.R --selection 120
  rx send --file report.Rmd --selection 40:212
  cat report.Rmd | rx send --file report.Rmd --stdin -s 0:0 -s 300:300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readText(file, fromStdin)
			if err != nil {
				return err
			}
			sels, err := parseSelections(selections)
			if err != nil {
				return err
			}

			a, _, err := c.application(cmd, c.stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Send(cmd.Context(), app.Request{Path: file, Text: text, Selections: sels})
			if err != nil {
				return err
			}
			out, err := app.EncodeResponse(resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "file to read; its extension selects the syntax")
	flags.StringArrayVarP(&selections, "selection", "s", nil, "region as ANCHOR:HEAD byte offsets, or a cursor offset (repeatable)")
	flags.BoolVar(&fromStdin, "stdin", false, "read the buffer from stdin; --file then only names the syntax")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newJumpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "jump",
		Short: "Bring the R session to the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := c.application(cmd, c.stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Jump(cmd.Context())
		},
	}
}

func newScopesCmd(c *cli) *cobra.Command {
	var (
		file      string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "scopes",
		Short: "Print the scope at the start of each line",
		Long: `Scopes prints, for every line of the file, its byte offset, whether
rx would send it, and the scope name the pattern is matched against.
Lines rx sends are marked with '*'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readText(file, fromStdin)
			if err != nil {
				return err
			}
			s, _, err := c.settings(cmd)
			if err != nil {
				return err
			}
			m, err := s.Matcher()
			if err != nil {
				return err
			}

			for _, ls := range app.DescribeScopes(file, text, m) {
				mark := " "
				if ls.Source {
					mark = "*"
				}
				fmt.Fprintf(c.stdout, "%4d %8d %s %s\n", ls.Line+1, ls.Offset, mark, ls.Scope)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "file to classify")
	flags.BoolVar(&fromStdin, "stdin", false, "read the text from stdin; --file then only names the syntax")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer JSON requests on stdin, one per line",
		Long: `Serve keeps one session open and answers requests read from stdin,
one JSON object per line, with one JSON object per line on stdout:

  {"id":1,"command":"send","path":"a.R","text":"x <- 1\n","selections":[[0,0]]}
  {"id":1,"outcome":"sent","lines":["x <- 1"],"selections":[[7,7]]}

Commands are send, jump, scopes and stats. Settings are reloaded when the
settings file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, opts, err := c.application(cmd, c.stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			logger := app.GetLogger().WithComponent("serve")
			if path, _ := opts.ConfigPath(); path != "" && !noWatch {
				watchCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				go func() {
					err := a.WatchSettings(watchCtx, opts)
					if err != nil && !errors.Is(err, context.Canceled) {
						logger.Warn("watch %s: %v", path, err)
					}
				}()
			}

			logger.Info("serving via %s", a.TransportName())
			errc := make(chan error, 1)
			go func() { errc <- a.Serve(ctx, c.stdin, c.stdout) }()
			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload settings when the file changes")
	return cmd
}

// readText returns the buffer text from stdin or from file.
func (c *cli) readText(file string, fromStdin bool) (string, error) {
	if fromStdin {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseSelections parses "ANCHOR:HEAD" pairs and bare cursor offsets.
func parseSelections(values []string) ([]cursor.Selection, error) {
	sels := make([]cursor.Selection, 0, len(values))
	for _, v := range values {
		a, h, isRange := strings.Cut(v, ":")
		anchor, err := parseOffset(a)
		if err != nil {
			return nil, fmt.Errorf("selection %q: %w", v, err)
		}
		head := anchor
		if isRange {
			if head, err = parseOffset(h); err != nil {
				return nil, fmt.Errorf("selection %q: %w", v, err)
			}
		}
		sels = append(sels, cursor.NewSelection(anchor, head))
	}
	return sels, nil
}

func parseOffset(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative offset %d", n)
	}
	return n, nil
}
