// rack.go - The rack graph: module table, wire list and construction ops

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

import "fmt"

// RackError provides detailed error context for rack operations
type RackError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *RackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rack %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("rack %s failed: %s", e.Operation, e.Details)
}

// Wire records one directed connection between an output port and an input
// port. Wires are append-only bookkeeping; the authoritative connectivity
// used at render time is the per-input binding stored on the destination
// module. Installing a wire overwrites any prior binding on that input.
type Wire struct {
	FromModule int
	FromPort   int
	ToModule   int
	ToPort     int
}

// Rack owns all modules and wires of one patch plus the derived topological
// execution order. Build the whole graph first, call BuildTopology once, then
// hand the rack to a RackEngine; the graph is immutable for the duration of a
// render session.
type Rack struct {
	modules []*Module
	wires   []Wire

	topoOrder []int
	topoBuilt bool
	fallback  bool // cycle detected, running in creation order

	outModule int // handle of the MOD_OUT sink, -1 if none
}

func NewRack() *Rack {
	return &Rack{
		modules:   make([]*Module, 0, MAX_MODULES),
		wires:     make([]Wire, 0, MAX_WIRES),
		outModule: -1,
	}
}

// AddModule creates a module of the given type and returns its dense handle,
// or INVALID_HANDLE when the module table is at capacity or an arity exceeds
// the per-module port maximum.
func (r *Rack) AddModule(t ModuleType, name string, numInputs, numOutputs int) int {
	if len(r.modules) >= MAX_MODULES {
		return INVALID_HANDLE
	}
	if numInputs < 0 || numInputs > MAX_INPUTS || numOutputs < 0 || numOutputs > MAX_OUTPUTS {
		return INVALID_HANDLE
	}
	id := len(r.modules)
	m := newModule(t, name, id, numInputs, numOutputs)
	r.modules = append(r.modules, m)
	if t == MOD_OUT {
		r.outModule = id
	}
	return id
}

// Connect wires an output port of one module to an input port of another.
// It fails when the wire table is full, a handle is out of range, or the
// destination port exceeds the destination's declared input arity. On
// success the destination's single-source binding is overwritten: the last
// connection to an input wins. Patches that need summing insert a MIX4.
func (r *Rack) Connect(fromModule, fromPort, toModule, toPort int) bool {
	if len(r.wires) >= MAX_WIRES {
		return false
	}
	if fromModule < 0 || fromModule >= len(r.modules) {
		return false
	}
	if toModule < 0 || toModule >= len(r.modules) {
		return false
	}
	src := r.modules[fromModule]
	if fromPort < 0 || fromPort >= src.NumOutputs {
		return false
	}
	dst := r.modules[toModule]
	if toPort < 0 || toPort >= dst.NumInputs {
		return false
	}
	r.wires = append(r.wires, Wire{fromModule, fromPort, toModule, toPort})
	dst.inputs[toPort] = InputBinding{SrcModule: fromModule, SrcPort: fromPort}
	return true
}

// Module returns the module for a handle, or nil when out of range.
func (r *Rack) Module(handle int) *Module {
	if handle < 0 || handle >= len(r.modules) {
		return nil
	}
	return r.modules[handle]
}

// FindModule returns the handle of the first module with the given name, or
// INVALID_HANDLE. Patch files wire by name.
func (r *Rack) FindModule(name string) int {
	for _, m := range r.modules {
		if m.Name == name {
			return m.ID
		}
	}
	return INVALID_HANDLE
}

func (r *Rack) ModuleCount() int {
	return len(r.modules)
}

func (r *Rack) WireCount() int {
	return len(r.wires)
}

// OutModule returns the handle of the terminal sink, or -1 when the patch
// has none. A rack without a sink cannot start a render session.
func (r *Rack) OutModule() int {
	return r.outModule
}

// TopologyBuilt reports whether BuildTopology has run.
func (r *Rack) TopologyBuilt() bool {
	return r.topoBuilt
}

// FallbackOrder reports whether the last BuildTopology degraded to module
// creation order because of a cycle.
func (r *Rack) FallbackOrder() bool {
	return r.fallback
}

// Order returns the cached execution order. Valid only after BuildTopology.
func (r *Rack) Order() []int {
	return r.topoOrder
}
