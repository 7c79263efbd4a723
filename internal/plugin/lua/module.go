package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rx/internal/collate"
)

// ModuleName is the name scripts require to reach rx helpers.
const ModuleName = "rx"

func (s *State) loadModule(L *lua.LState) int {
	mod := L.NewTable()
	L.SetField(mod, "escape", L.NewFunction(luaEscape))
	L.SetField(mod, "log", L.NewFunction(s.luaLog))
	L.Push(mod)
	return 1
}

// luaEscape: rx.escape(s) -> string
func luaEscape(L *lua.LState) int {
	L.Push(lua.LString(collate.EscapeForShellQuoting(L.CheckString(1))))
	return 1
}

// luaLog: rx.log(msg)
func (s *State) luaLog(L *lua.LState) int {
	s.logFunc(L.ToStringMeta(L.CheckAny(1)).String())
	return 0
}
