// Package script runs the optional init.lua at bootstrap. The script gets
// a sandboxed Lua state with only the base libraries opened and an
// "inkwell" table exposing get/set over the flat config keys, so users can
// compute configuration overrides. A broken or hostile script must never
// prevent editing: failures are returned for logging and otherwise ignored.
package script

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/edvik/inkwell/internal/config"
)

// RunInit executes the init script at path against cfg. A missing file is
// not an error. On script failure the config keeps whatever values were
// applied before the failing statement.
func RunInit(cfg *config.Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking init script %s: %w", path, err)
	}

	L := newSandboxedState()
	defer L.Close()
	registerConfigModule(L, cfg)

	if err := doWithRecovery(func() error { return L.DoFile(path) }); err != nil {
		return fmt.Errorf("running init script %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the per-user location of init.lua, next to the
// config file.
func DefaultPath() (string, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(cfgPath), "init.lua"), nil
}

// newSandboxedState builds a Lua state with base, table, string and math
// libraries only. io, os, debug and package never open, and the base
// functions that load code from disk or strings are removed.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// registerConfigModule exposes the inkwell table. get returns nil for an
// unknown key; set raises a Lua error for unknown keys or bad value types
// so the mistake points at the offending script line.
func registerConfigModule(L *lua.LState, cfg *config.Config) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			key := L.CheckString(1)
			val, ok := cfg.Get(key)
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(toLua(val))
			return 1
		},
		"set": func(L *lua.LState) int {
			key := L.CheckString(1)
			val, err := fromLua(L.CheckAny(2))
			if err != nil {
				L.RaiseError("inkwell.set(%q): %s", key, err.Error())
			}
			if err := cfg.Set(key, val); err != nil {
				L.RaiseError("inkwell.set: %s", err.Error())
			}
			return 0
		},
	})
	L.SetGlobal("inkwell", mod)
}

func toLua(v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case bool:
		return lua.LBool(x)
	}
	return lua.LNil
}

func fromLua(v lua.LValue) (any, error) {
	switch x := v.(type) {
	case lua.LString:
		return string(x), nil
	case lua.LNumber:
		return float64(x), nil
	case lua.LBool:
		return bool(x), nil
	}
	return nil, fmt.Errorf("unsupported value type %s", v.Type())
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
