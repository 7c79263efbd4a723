package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/rx/internal/engine/cursor"
)

// MaxRequestSize bounds one serve request line.
const MaxRequestSize = 64 << 20

// Serve commands.
const (
	CommandSend   = "send"
	CommandJump   = "jump"
	CommandScopes = "scopes"
	CommandStats  = "stats"
)

// Serve answers JSON requests read one per line from r, writing one JSON
// response per line to w, until r is exhausted or ctx is done.
//
//	{"id":1,"command":"send","path":"a.R","text":"x <- 1\n","selections":[[0,0]]}
//	{"id":1,"outcome":"sent","lines":["x <- 1"],"selections":[[7,7]]}
//
// A failed request is answered with {"id":...,"error":"..."} and does not
// stop the loop.
func (app *Application) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), MaxRequestSize)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if _, err := bw.WriteString(app.handle(ctx, line)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (app *Application) handle(ctx context.Context, raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return errorReply("null", fmt.Errorf("%w: invalid JSON", ErrBadRequest))
	}
	req := gjson.ParseBytes(raw)
	if !req.IsObject() {
		return errorReply("null", fmt.Errorf("%w: not an object", ErrBadRequest))
	}

	id := req.Get("id").Raw
	if id == "" {
		id = "null"
	}
	rep := &reply{json: `{"id":` + id + `}`}

	var err error
	switch cmd := req.Get("command").String(); cmd {
	case CommandSend:
		err = app.serveSend(ctx, req, rep)
	case CommandJump:
		err = app.Jump(ctx)
		rep.set("ok", err == nil)
	case CommandScopes:
		app.serveScopes(req, rep)
	case CommandStats:
		app.serveStats(rep)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	if err == nil {
		err = rep.err
	}
	if err != nil {
		app.logger.Debug("request %s: %v", id, err)
		return errorReply(id, err)
	}
	return rep.json
}

func (app *Application) serveSend(ctx context.Context, req gjson.Result, rep *reply) error {
	sels, err := parseSelections(req.Get("selections"))
	if err != nil {
		return err
	}
	resp, err := app.Send(ctx, Request{
		Path:       req.Get("path").String(),
		Text:       req.Get("text").String(),
		Selections: sels,
	})
	if err != nil {
		return err
	}

	encodeResponse(rep, resp)
	return nil
}

// EncodeResponse renders resp the way serve answers a send request,
// without the id.
func EncodeResponse(resp Response) (string, error) {
	rep := &reply{json: "{}"}
	encodeResponse(rep, resp)
	return rep.json, rep.err
}

func encodeResponse(rep *reply, resp Response) {
	lines := resp.Lines
	if lines == nil {
		lines = []string{}
	}
	rep.set("outcome", string(resp.Outcome))
	rep.set("lines", lines)
	rep.set("selections", formatSelections(resp.Selections))
}

func (app *Application) serveScopes(req gjson.Result, rep *reply) {
	scopes := app.Scopes(req.Get("path").String(), req.Get("text").String())
	rep.set("scopes", []any{})
	for _, ls := range scopes {
		rep.set("scopes.-1", map[string]any{
			"line":   ls.Line,
			"offset": ls.Offset,
			"scope":  ls.Scope,
			"source": ls.Source,
		})
	}
}

func (app *Application) serveStats(rep *reply) {
	s := app.metrics.Snapshot()
	rep.set("requests", s.Requests())
	rep.set("sent", s.Sent)
	rep.set("no_source_scope", s.NoSourceScope)
	rep.set("empty_selection", s.EmptySelection)
	rep.set("failed", s.Failed)
	rep.set("lines_sent", s.LinesSent)
	rep.set("uptime_ms", s.Uptime.Milliseconds())
}

// parseSelections reads [[anchor,head],...]. A bare number is a cursor.
func parseSelections(v gjson.Result) ([]cursor.Selection, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: selections must be an array", ErrBadRequest)
	}

	var sels []cursor.Selection
	var err error
	v.ForEach(func(_, item gjson.Result) bool {
		switch {
		case item.Type == gjson.Number:
			sels = append(sels, cursor.NewCursorSelection(item.Int()))
		case item.IsArray() && len(item.Array()) == 2:
			pair := item.Array()
			if pair[0].Type != gjson.Number || pair[1].Type != gjson.Number {
				err = fmt.Errorf("%w: selection %s is not numeric", ErrBadRequest, item.Raw)
				return false
			}
			sels = append(sels, cursor.NewSelection(pair[0].Int(), pair[1].Int()))
		default:
			err = fmt.Errorf("%w: selection %s", ErrBadRequest, item.Raw)
			return false
		}
		return true
	})
	return sels, err
}

func formatSelections(sels []cursor.Selection) [][2]int64 {
	out := make([][2]int64, len(sels))
	for i, s := range sels {
		out[i] = [2]int64{s.Anchor, s.Head}
	}
	return out
}

// reply accumulates a JSON object; the first sjson error sticks.
type reply struct {
	json string
	err  error
}

func (r *reply) set(path string, v any) {
	if r.err != nil {
		return
	}
	r.json, r.err = sjson.Set(r.json, path, v)
}

func errorReply(id string, err error) string {
	out, serr := sjson.Set(`{"id":`+id+`}`, "error", err.Error())
	if serr != nil {
		return `{"id":null,"error":"internal error"}`
	}
	return out
}
