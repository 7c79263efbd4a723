package lua

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// BeforeSend is the name of the hook function scripts may define.
const BeforeSend = "before_send"

// Info describes the request a hook runs for.
type Info struct {
	// Path is the file the code comes from.
	Path string
	// Transport is the name of the session transport.
	Transport string
}

// Hook is a loaded hook script.
type Hook struct {
	state *State
	path  string
}

// LoadHook runs the script at path in a fresh sandboxed state.
func LoadHook(ctx context.Context, path string, opts ...StateOption) (*Hook, error) {
	state := NewState(opts...)
	if err := state.DoFile(ctx, path); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("load hook %s: %w", path, err)
	}
	return &Hook{state: state, path: path}, nil
}

// NewHook runs code as a hook script; name is used in error messages.
func NewHook(ctx context.Context, name, code string, opts ...StateOption) (*Hook, error) {
	state := NewState(opts...)
	if err := state.DoString(ctx, code); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("load hook %s: %w", name, err)
	}
	return &Hook{state: state, path: name}, nil
}

// Path returns the script path or name.
func (h *Hook) Path() string {
	return h.path
}

// HasBeforeSend reports whether the script defines before_send.
func (h *Hook) HasBeforeSend() bool {
	return h.state.HasFunction(BeforeSend)
}

// BeforeSend passes lines through the script's before_send function. It
// returns lines unchanged when the function is missing or returns nil.
func (h *Hook) BeforeSend(ctx context.Context, lines []string, info Info) ([]string, error) {
	if !h.HasBeforeSend() {
		return lines, nil
	}

	L := h.state.L
	results, err := h.state.Call(ctx, BeforeSend, linesToTable(L, lines), infoToTable(L, info))
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", BeforeSend, h.path, err)
	}
	if len(results) == 0 || results[0] == lua.LNil {
		return lines, nil
	}

	out, err := tableToLines(results[0])
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", BeforeSend, h.path, err)
	}
	return out, nil
}

// Close releases the script's interpreter.
func (h *Hook) Close() error {
	return h.state.Close()
}

func linesToTable(L *lua.LState, lines []string) *lua.LTable {
	tbl := L.CreateTable(len(lines), 0)
	for _, line := range lines {
		tbl.Append(lua.LString(line))
	}
	return tbl
}

func infoToTable(L *lua.LState, info Info) *lua.LTable {
	tbl := L.CreateTable(0, 2)
	tbl.RawSetString("path", lua.LString(info.Path))
	tbl.RawSetString("transport", lua.LString(info.Transport))
	return tbl
}

// tableToLines converts a Lua sequence of strings. Numbers are accepted
// and formatted the way Lua prints them.
func tableToLines(lv lua.LValue) ([]string, error) {
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: want a table of strings, got %s", ErrBadResult, lv.Type())
	}

	n := tbl.Len()
	lines := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LString:
			lines = append(lines, string(v))
		case lua.LNumber:
			lines = append(lines, v.String())
		default:
			return nil, fmt.Errorf("%w: entry %d is %s", ErrBadResult, i, v.Type())
		}
	}
	return lines, nil
}
