package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	"github.com/dshills/rx/internal/config"
)

func serveLines(t *testing.T, app *Application, requests ...string) []string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	if err := app.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() failed: %v", err)
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestServe_Send(t *testing.T) {
	app, ft := newTestApp(t, config.Default())

	got := serveLines(t, app,
		`{"id":1,"command":"send","path":"a.R","text":"x <- 1\ny <- 2\n","selections":[[0,13]]}`,
		`{"id":2,"command":"send","path":"a.R","text":"x <- 1\ny <- 2\n","selections":[3]}`,
	)
	if len(got) != 2 {
		t.Fatalf("got %d responses: %q", len(got), got)
	}

	first := gjson.Parse(got[0])
	if first.Get("id").Int() != 1 || first.Get("outcome").String() != "sent" {
		t.Errorf("first response = %s", got[0])
	}
	if lines := first.Get("lines").Array(); len(lines) != 2 || lines[1].String() != "y <- 2" {
		t.Errorf("first lines = %s", first.Get("lines").Raw)
	}
	if raw := first.Get("selections").Raw; raw != "[[0,13]]" {
		t.Errorf("first selections = %s", raw)
	}

	if raw := gjson.Get(got[1], "selections").Raw; raw != "[[10,10]]" {
		t.Errorf("second selections = %s", raw)
	}

	want := [][]string{{"x <- 1", "y <- 2"}, {"x <- 1"}}
	if diff := cmp.Diff(want, ft.sent); diff != "" {
		t.Errorf("transport mismatch (-want +got):\n%s", diff)
	}
}

func TestServe_NoSourceScopeHasEmptyLines(t *testing.T) {
	app, _ := newTestApp(t, config.Default())

	got := serveLines(t, app, `{"id":"a","command":"send","path":"notes","text":"hi\n"}`)
	resp := gjson.Parse(got[0])
	if resp.Get("id").String() != "a" {
		t.Errorf("id = %s", resp.Get("id").Raw)
	}
	if resp.Get("outcome").String() != "no_source_scope" {
		t.Errorf("outcome = %s", resp.Get("outcome").Raw)
	}
	if raw := resp.Get("lines").Raw; raw != "[]" {
		t.Errorf("lines = %s, want []", raw)
	}
}

func TestServe_Errors(t *testing.T) {
	app, _ := newTestApp(t, config.Default())

	got := serveLines(t, app,
		`not json`,
		`[1,2]`,
		`{"id":3,"command":"fly"}`,
		`{"id":4,"command":"send","text":"x","selections":"oops"}`,
		`{"id":5,"command":"send","text":"x","selections":[["a",1]]}`,
		``,
		`{"id":6,"command":"jump"}`,
	)
	if len(got) != 6 {
		t.Fatalf("got %d responses: %q", len(got), got)
	}

	for i, line := range got[:5] {
		resp := gjson.Parse(line)
		if !resp.Get("error").Exists() {
			t.Errorf("response %d has no error: %s", i, line)
		}
	}
	if id := gjson.Get(got[0], "id"); id.Type != gjson.Null {
		t.Errorf("invalid JSON id = %s, want null", id.Raw)
	}
	if !strings.Contains(gjson.Get(got[2], "error").String(), "unknown command") {
		t.Errorf("unknown command error = %s", got[2])
	}
	if gjson.Get(got[3], "id").Int() != 4 {
		t.Errorf("id not echoed: %s", got[3])
	}
	if !gjson.Get(got[5], "ok").Bool() {
		t.Errorf("jump response = %s", got[5])
	}
}

func TestServe_Scopes(t *testing.T) {
	app, _ := newTestApp(t, config.Default())

	got := serveLines(t, app, `{"id":1,"command":"scopes","path":"a.Rmd","text":"text\n`+"```{r}"+`\nx\n`+"```"+`\n"}`)
	scopes := gjson.Get(got[0], "scopes").Array()
	if len(scopes) != 5 {
		t.Fatalf("scopes = %s", gjson.Get(got[0], "scopes").Raw)
	}
	if !scopes[2].Get("source").Bool() || scopes[0].Get("source").Bool() {
		t.Errorf("scopes = %s", gjson.Get(got[0], "scopes").Raw)
	}
	if scopes[2].Get("offset").Int() != 12 {
		t.Errorf("line 2 offset = %d", scopes[2].Get("offset").Int())
	}
}

func TestServe_Stats(t *testing.T) {
	app, _ := newTestApp(t, config.Default())

	got := serveLines(t, app,
		`{"id":1,"command":"send","path":"a.R","text":"x\n"}`,
		`{"id":2,"command":"stats"}`,
	)
	stats := gjson.Parse(got[1])
	if stats.Get("requests").Int() != 1 || stats.Get("sent").Int() != 1 || stats.Get("lines_sent").Int() != 1 {
		t.Errorf("stats = %s", got[1])
	}
}

func TestServe_ContextCanceled(t *testing.T) {
	app, ft := newTestApp(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader(`{"id":1,"command":"send","path":"a.R","text":"x\n"}` + "\n")
	if err := app.Serve(ctx, in, &bytes.Buffer{}); err != context.Canceled {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if len(ft.sent) != 0 {
		t.Errorf("transport received %v", ft.sent)
	}
}

func TestEncodeResponse(t *testing.T) {
	got, err := EncodeResponse(Response{Outcome: OutcomeEmptySelection, Selections: nil})
	if err != nil {
		t.Fatalf("EncodeResponse() failed: %v", err)
	}
	want := `{"outcome":"empty_selection","lines":[],"selections":[]}`
	if got != want {
		t.Errorf("EncodeResponse() = %s, want %s", got, want)
	}
}
