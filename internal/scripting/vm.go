package scripting

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/logger"
)

// handlerTable is the global a report script may assign its hooks to instead
// of returning them.
const handlerTable = "report"

// VM wraps a Lua state configured for report scripts.
type VM struct {
	L *lua.LState
}

// NewVM creates a new Lua VM with the standard libraries loaded. The Lua
// print function writes to out.
func NewVM(out io.Writer) *VM {
	L := lua.NewState(lua.Options{
		CallStackSize: 120,
		RegistrySize:  120 * 20,
	})

	vm := &VM{L: L}
	vm.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}))
	return vm
}

// Close shuts down the Lua VM.
func (vm *VM) Close() {
	vm.L.Close()
}

// LoadScript loads and executes a Lua script file.
// The script may return a table of report hooks.
func (vm *VM) LoadScript(path string) error {
	if err := vm.L.DoFile(path); err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	return nil
}

// LoadString executes Lua source held in memory. name is used in errors.
func (vm *VM) LoadString(name, src string) error {
	if err := vm.L.DoString(src); err != nil {
		return fmt.Errorf("load script %s: %w", name, err)
	}
	return nil
}

// CallHandler calls a hook on the handler table. Hooks the script does not
// define are skipped.
func (vm *VM) CallHandler(funcName string, args ...lua.LValue) error {
	handlers := vm.handlers()
	if handlers == nil {
		return nil
	}

	fn := handlers.RawGetString(funcName)
	if fn == lua.LNil {
		return nil
	}

	if _, ok := fn.(*lua.LFunction); !ok {
		return fmt.Errorf("%s.%s is not a function", handlerTable, funcName)
	}

	if err := vm.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("call %s.%s: %w", handlerTable, funcName, err)
	}

	return nil
}

// HasHandler checks if the handler table defines a hook.
func (vm *VM) HasHandler(funcName string) bool {
	handlers := vm.handlers()
	if handlers == nil {
		return false
	}
	_, ok := handlers.RawGetString(funcName).(*lua.LFunction)
	return ok
}

// handlers finds the hook table: either the return value of the script or
// the global named "report".
func (vm *VM) handlers() *lua.LTable {
	if tbl, ok := vm.L.Get(-1).(*lua.LTable); ok {
		return tbl
	}
	if tbl, ok := vm.L.GetGlobal(handlerTable).(*lua.LTable); ok {
		return tbl
	}
	return nil
}

// SetGlobal sets a global value in the Lua state.
func (vm *VM) SetGlobal(name string, value lua.LValue) {
	vm.L.SetGlobal(name, value)
}

// RegisterModule registers a table of functions as a Lua module.
func (vm *VM) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	mod := vm.L.NewTable()
	for fname, fn := range funcs {
		mod.RawSetString(fname, vm.L.NewFunction(fn))
	}
	vm.L.SetGlobal(name, mod)
}

// LogError logs a Lua error with context.
func LogError(context string, err error) {
	if err != nil {
		logger.Error("lua error", zap.String("context", context), zap.Error(err))
	}
}
