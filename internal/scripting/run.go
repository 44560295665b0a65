// Package scripting runs Lua report scripts over decoded QWK packets.
//
// A script sees the packet through the global "qwk" module and may return a
// table (or assign the global "report") with any of these hooks:
//
//	on_load()
//	on_conference(conf)          -- once per conference holding messages
//	on_thread(conf, thread)      -- once per top-level thread
//	on_finish()
//
// The Lua print function writes to the output given to Run.
package scripting

import (
	"io"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/notepid/twilight_qwk/internal/packet"
)

// Run executes the report script at path against p.
func Run(path string, p *packet.Packet, out io.Writer) error {
	return run(filepath.Base(path), p, out, func(vm *VM) error {
		return vm.LoadScript(path)
	})
}

// RunString executes report source held in memory.
func RunString(name, src string, p *packet.Packet, out io.Writer) error {
	return run(name, p, out, func(vm *VM) error {
		return vm.LoadString(name, src)
	})
}

func run(name string, p *packet.Packet, out io.Writer, load func(*VM) error) error {
	vm := NewVM(out)
	defer vm.Close()

	NewPacketAPI(p).Register(vm)
	vm.SetGlobal("script_name", lua.LString(name))

	if err := load(vm); err != nil {
		LogError(name, err)
		return err
	}

	if err := vm.CallHandler("on_load"); err != nil {
		LogError(name+".on_load", err)
		return err
	}

	wantThreads := vm.HasHandler("on_thread")
	for _, c := range p.Active() {
		conf := confToTable(vm.L, c)
		if err := vm.CallHandler("on_conference", conf); err != nil {
			LogError(name+".on_conference", err)
			return err
		}
		if !wantThreads {
			continue
		}
		for _, t := range c.DisplayThreads {
			if err := vm.CallHandler("on_thread", conf, threadToTable(vm.L, t)); err != nil {
				LogError(name+".on_thread", err)
				return err
			}
		}
	}

	if err := vm.CallHandler("on_finish"); err != nil {
		LogError(name+".on_finish", err)
		return err
	}
	return nil
}
