// patch_lua.go - Imperative Lua patch script loader

/*
███  █  █  █████  █  █  ███  █████  ███  ████  █  █      ███    ██   ████  █  █
 █   ██ █    █    █  █   █     █     █   █  █  ██ █      █  █  █  █  █     █ █
 █   █ ██    █    █  █   █     █     █   █  █  █ ██      ███   ████  █     ██
 █   █  █    █    █  █   █     █     █   █  █  █  █      █ █   █  █  █     █ █
███  █  █    █    ████  ███    █    ███  ████  █  █      █  █  █  █  ████  █  █

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionRack
License: GPLv3 or later
*/

package main

import (
	lua "github.com/yuin/gopher-lua"
)

// A Lua patch is a script driving the same construction calls a Go caller
// would make:
//
//	freq = add_module("param", "ParamFreq")
//	set_param(freq, "value", 220)
//	vco = add_module("vco", "VCO")
//	connect(freq, 0, vco, 0)
//	add_module("out", "OUT")
//
// Scripts can loop and compute, which is the point: a 12-voice drone patch
// is three lines of Lua. Construction failures raise Lua errors carrying the
// rack's diagnostic text.
func LoadLuaPatch(path string, r *Rack) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("add_module", L.NewFunction(func(L *lua.LState) int {
		typeName := L.CheckString(1)
		name := L.CheckString(2)

		t, err := ParseModuleType(typeName)
		if err != nil {
			L.RaiseError("add_module: %v", err)
			return 0
		}
		numIn, numOut := defaultArity(t)
		numIn = L.OptInt(3, numIn)
		numOut = L.OptInt(4, numOut)

		h := r.AddModule(t, name, numIn, numOut)
		if h == INVALID_HANDLE {
			L.RaiseError("add_module: %q rejected (capacity or arity)", name)
			return 0
		}
		L.Push(lua.LNumber(h))
		return 1
	}))

	L.SetGlobal("connect", L.NewFunction(func(L *lua.LState) int {
		from := L.CheckInt(1)
		fromPort := L.CheckInt(2)
		to := L.CheckInt(3)
		toPort := L.CheckInt(4)

		if !r.Connect(from, fromPort, to, toPort) {
			L.RaiseError("connect: wire %d:%d -> %d:%d rejected (full table or bad port)",
				from, fromPort, to, toPort)
		}
		return 0
	}))

	L.SetGlobal("set_param", L.NewFunction(func(L *lua.LState) int {
		handle := L.CheckInt(1)
		key := L.CheckString(2)
		value := float64(L.CheckNumber(3))

		m := r.Module(handle)
		if m == nil {
			L.RaiseError("set_param: invalid handle %d", handle)
			return 0
		}
		if err := SetModuleParam(m, key, value); err != nil {
			L.RaiseError("set_param: %v", err)
		}
		return 0
	}))

	if err := L.DoFile(path); err != nil {
		return &RackError{
			Operation: "patch load",
			Details:   path,
			Err:       err,
		}
	}
	return nil
}
