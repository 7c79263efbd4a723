// Package app ties the rx pipeline together: it turns an editor request
// into collated lines, runs hooks, hands the lines to a session transport
// and reports the selection the editor should show afterwards.
package app

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dshills/rx/internal/collate"
	"github.com/dshills/rx/internal/config"
	"github.com/dshills/rx/internal/engine/buffer"
	"github.com/dshills/rx/internal/engine/cursor"
	"github.com/dshills/rx/internal/plugin/lua"
	"github.com/dshills/rx/internal/scope"
	"github.com/dshills/rx/internal/session"
)

// Outcome is the result kind of a Send.
type Outcome string

const (
	// OutcomeSent means lines were handed to the transport.
	OutcomeSent Outcome = "sent"
	// OutcomeNoSourceScope means no region was in R source; only the
	// cursor moved.
	OutcomeNoSourceScope Outcome = "no_source_scope"
	// OutcomeEmptySelection means the collected text was blank; only
	// cursors moved.
	OutcomeEmptySelection Outcome = "empty_selection"
)

// Request is one send invocation as an editor reports it.
type Request struct {
	// Path names the file; its extension selects the syntax.
	Path string
	// Text is the full buffer content. CRLF is treated as LF and
	// selection offsets refer to the LF form.
	Text string
	// Selections are the editor's regions. None means a cursor at 0.
	Selections []cursor.Selection
}

// Response tells the editor what happened and where the selection goes.
type Response struct {
	Outcome    Outcome
	Lines      []string
	Selections []cursor.Selection
}

// Options configures an Application.
type Options struct {
	Settings config.Settings

	// Logger defaults to GetLogger().
	Logger *Logger

	// Transport overrides the transport built from Settings. An injected
	// transport is kept across settings reloads and closed by Close.
	Transport session.Transport

	// SessionOptions are passed to session.New.
	SessionOptions []session.Option

	// Metrics defaults to a fresh tracker.
	Metrics *Metrics
}

// Application runs send and jump commands. Calls are serialized.
type Application struct {
	mu sync.Mutex

	settings    config.Settings
	matcher     scope.Matcher
	transport   session.Transport
	injected    bool
	sessionOpts []session.Option
	hook        *lua.Hook

	logger  *Logger
	metrics *Metrics
	closed  bool
}

// New builds an Application from opts. The hook script named in the
// settings is loaded immediately.
func New(ctx context.Context, opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = GetLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	app := &Application{
		settings:    opts.Settings,
		transport:   opts.Transport,
		injected:    opts.Transport != nil,
		sessionOpts: opts.SessionOptions,
		logger:      logger.WithComponent("app"),
		metrics:     metrics,
	}

	m, err := opts.Settings.Matcher()
	if err != nil {
		return nil, err
	}
	app.matcher = m

	if app.transport == nil {
		t, err := session.New(opts.Settings, opts.SessionOptions...)
		if err != nil {
			return nil, err
		}
		app.transport = t
	}

	hook, err := app.loadHook(ctx, opts.Settings.HookScript)
	if err != nil {
		_ = app.transport.Close()
		return nil, err
	}
	app.hook = hook

	return app, nil
}

func (app *Application) loadHook(ctx context.Context, path string) (*lua.Hook, error) {
	if path == "" {
		return nil, nil
	}
	hookLog := app.logger.WithField("hook", path)
	hook, err := lua.LoadHook(ctx, path, lua.WithLogFunc(func(msg string) {
		hookLog.Info("%s", msg)
	}))
	if err != nil {
		return nil, NewOperationError("load hook", path, err)
	}
	return hook, nil
}

// Settings returns the settings in effect.
func (app *Application) Settings() config.Settings {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.settings
}

// TransportName returns the name of the transport in use.
func (app *Application) TransportName() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.transport.Name()
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Send collates the request's regions and sends them to the session.
//
// Empty regions advance to the next line for every outcome. The selection
// is put back only after lines were sent, and only when the editor had a
// single non-empty region. A hook that returns no lines makes the outcome
// OutcomeEmptySelection.
func (app *Application) Send(ctx context.Context, req Request) (Response, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return Response{}, ErrClosed
	}

	start := time.Now()
	resp, err := app.send(ctx, req)
	if err != nil {
		app.metrics.RecordFailure()
		app.logger.Error("send %s: %v", req.Path, err)
		return Response{}, err
	}
	app.metrics.RecordOutcome(resp.Outcome, len(resp.Lines), time.Since(start))
	return resp, nil
}

func (app *Application) send(ctx context.Context, req Request) (Response, error) {
	buf := buffer.NewBufferFromString(req.Text)
	state := cursor.NewSelectionState(clampSelections(req.Selections, buf.Len()))
	regions := state.SplitByLine(buf)

	classifier := scope.ForFile(req.Path, buf.Text())
	res, err := collate.Collate(regions, classifier, app.matcher, collate.TextOf(buf))
	for _, r := range res.Advance {
		state.Advance(r, collate.AdvanceCursor(r, buf))
	}

	switch {
	case errors.Is(err, collate.ErrNoSourceScope):
		app.logger.Debug("%s: no source scope at %d", req.Path, state.Original.Start())
		return Response{Outcome: OutcomeNoSourceScope, Selections: state.Selections()}, nil
	case errors.Is(err, collate.ErrEmptySelection):
		app.logger.Debug("%s: selection is blank", req.Path)
		return Response{Outcome: OutcomeEmptySelection, Selections: state.Selections()}, nil
	case err != nil:
		return Response{}, err
	}

	lines := res.Lines
	if app.hook != nil && app.hook.HasBeforeSend() {
		lines, err = app.hook.BeforeSend(ctx, lines, lua.Info{
			Path:      req.Path,
			Transport: app.transport.Name(),
		})
		if err != nil {
			return Response{}, NewOperationError("hook", app.hook.Path(), err)
		}
	}

	if len(lines) == 0 {
		app.logger.Debug("%s: hook dropped every line", req.Path)
		return Response{Outcome: OutcomeEmptySelection, Selections: state.Selections()}, nil
	}

	if err := app.transport.Send(ctx, lines); err != nil {
		return Response{}, NewOperationError("send", app.transport.Name(), err)
	}
	app.logger.Debug("sent %d lines via %s", len(lines), app.transport.Name())

	state.Restore()
	return Response{Outcome: OutcomeSent, Lines: lines, Selections: state.Selections()}, nil
}

func clampSelections(sels []cursor.Selection, n buffer.ByteOffset) []cursor.Selection {
	if len(sels) == 0 {
		return []cursor.Selection{cursor.NewCursorSelection(0)}
	}
	out := make([]cursor.Selection, len(sels))
	for i, s := range sels {
		out[i] = cursor.NewSelection(clamp(s.Anchor, n), clamp(s.Head, n))
	}
	return out
}

func clamp(off, n buffer.ByteOffset) buffer.ByteOffset {
	return min(max(off, 0), n)
}

// Jump brings the R session to the foreground.
func (app *Application) Jump(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return ErrClosed
	}
	if err := app.transport.Activate(ctx); err != nil {
		return NewOperationError("jump", app.transport.Name(), err)
	}
	return nil
}

// LineScope is the scope at the start of one line.
type LineScope struct {
	Line   int
	Offset buffer.ByteOffset
	Scope  string
	Source bool
}

// Scopes reports the scope at the start of every line of text, and
// whether the configured pattern accepts it.
func (app *Application) Scopes(path, text string) []LineScope {
	app.mu.Lock()
	m := app.matcher
	app.mu.Unlock()
	return DescribeScopes(path, text, m)
}

// DescribeScopes reports the scope at the start of every line of text
// and whether m accepts it.
func DescribeScopes(path, text string, m scope.Matcher) []LineScope {
	buf := buffer.NewBufferFromString(text)
	classifier := scope.ForFile(path, buf.Text())

	n := int(buf.LineCount())
	out := make([]LineScope, 0, n)
	for line := range n {
		off := buf.LineStartOffset(uint32(line))
		label := classifier.ScopeAt(off)
		out = append(out, LineScope{
			Line:   line,
			Offset: off,
			Scope:  label,
			Source: m.Matches(label),
		})
	}
	return out
}

// UpdateSettings applies new settings. The transport is rebuilt when a
// transport setting changed and the hook is reloaded when its path did.
// On error the previous settings stay in effect.
func (app *Application) UpdateSettings(ctx context.Context, s config.Settings) error {
	m, err := s.Matcher()
	if err != nil {
		return err
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return ErrClosed
	}

	hook := app.hook
	if s.HookScript != app.settings.HookScript {
		if hook, err = app.loadHook(ctx, s.HookScript); err != nil {
			return err
		}
	}

	transport := app.transport
	if !app.injected && transportChanged(app.settings, s) {
		if transport, err = session.New(s, app.sessionOpts...); err != nil {
			if hook != app.hook && hook != nil {
				_ = hook.Close()
			}
			return err
		}
	}

	if hook != app.hook && app.hook != nil {
		_ = app.hook.Close()
	}
	if transport != app.transport {
		if err := app.transport.Close(); err != nil {
			app.logger.Warn("close %s: %v", app.transport.Name(), err)
		}
		app.logger.Info("transport is now %s", transport.Name())
	}

	app.settings = s
	app.matcher = m
	app.hook = hook
	app.transport = transport
	return nil
}

func transportChanged(a, b config.Settings) bool {
	return a.Transport != b.Transport ||
		a.App != b.App ||
		a.TmuxTarget != b.TmuxTarget ||
		a.ScreenSession != b.ScreenSession ||
		!slices.Equal(a.RCommand, b.RCommand)
}

// WatchSettings reloads settings whenever the config file changes until
// ctx is done. Load errors are logged and leave the settings in place.
func (app *Application) WatchSettings(ctx context.Context, opts config.Options) error {
	log := app.logger.WithField("source", "config")
	return config.Watch(ctx, opts, func(s config.Settings, err error) {
		if err != nil {
			log.Warn("reload: %v", err)
			return
		}
		if err := app.UpdateSettings(ctx, s); err != nil {
			log.Warn("apply: %v", err)
			return
		}
		log.Info("settings reloaded")
	})
}

// Close releases the transport and hook. Further calls fail with
// ErrClosed.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return nil
	}
	app.closed = true

	var errs ErrorList
	errs.Add(app.transport.Close())
	if app.hook != nil {
		errs.Add(app.hook.Close())
	}
	return errs.AsError()
}
