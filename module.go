// module.go - Module identity, port bindings and per-type state for the rack

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
	"fmt"
	"strings"
)

// Engine limits. Fixed capacities, checked at construction time: operations
// fail rather than silently truncate.
const (
	MAX_MODULES = 64
	MAX_INPUTS  = 8
	MAX_OUTPUTS = 8
	MAX_WIRES   = 128

	INVALID_HANDLE = -1
)

// ModuleType is the closed set of module types the engine knows how to tick.
type ModuleType int

const (
	MOD_PARAM ModuleType = iota // constant CV output
	MOD_GATE                    // gate high for N seconds, then low
	MOD_VCO                     // sine oscillator, Hz CV input
	MOD_LFO                     // sine oscillator, no CV input
	MOD_ADSR                    // envelope generator (gate in -> env out)
	MOD_VCA                     // signal in * gain
	MOD_MIX4                    // 4-channel mixer
	MOD_OUT                     // terminal sink: L/R to the audio backend
)

var moduleTypeNames = map[ModuleType]string{
	MOD_PARAM: "param",
	MOD_GATE:  "gate",
	MOD_VCO:   "vco",
	MOD_LFO:   "lfo",
	MOD_ADSR:  "adsr",
	MOD_VCA:   "vca",
	MOD_MIX4:  "mix4",
	MOD_OUT:   "out",
}

func (t ModuleType) String() string {
	if name, ok := moduleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ModuleType(%d)", int(t))
}

// ParseModuleType maps a patch-file type tag to a ModuleType.
func ParseModuleType(s string) (ModuleType, error) {
	for t, name := range moduleTypeNames {
		if name == strings.ToLower(s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown module type %q", s)
}

// ModuleState is the per-type tick capability. One implementation per
// ModuleType, each carrying only that type's per-sample state. Tick consumes
// the resolved input values (one float per declared input, 0.0 when unbound),
// writes one float per declared output, and mutates only its own state.
type ModuleState interface {
	Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32)
}

// InputBinding records the exclusive source of one input port.
// SrcModule < 0 means unbound; an unbound input reads as 0.0.
type InputBinding struct {
	SrcModule int
	SrcPort   int
}

// Module is one typed unit of signal processing in the rack. The handle (ID)
// is dense and stable for the lifetime of the rack. Bindings and state are
// owned by the rack; state is mutated only by its own Tick during render.
type Module struct {
	ID         int
	Name       string
	Type       ModuleType
	NumInputs  int
	NumOutputs int

	inputs [MAX_INPUTS]InputBinding
	state  ModuleState
}

// State exposes the per-type state for parameter setup by patch builders.
// Callers type-assert to the concrete *ParamState, *AdsrState, etc.
func (m *Module) State() ModuleState {
	return m.state
}

// InputSource reports the binding of one input port.
func (m *Module) InputSource(port int) (InputBinding, bool) {
	if port < 0 || port >= m.NumInputs {
		return InputBinding{}, false
	}
	b := m.inputs[port]
	if b.SrcModule < 0 {
		return InputBinding{}, false
	}
	return b, true
}

func newModule(t ModuleType, name string, id, numInputs, numOutputs int) *Module {
	m := &Module{
		ID:         id,
		Name:       name,
		Type:       t,
		NumInputs:  numInputs,
		NumOutputs: numOutputs,
		state:      newModuleState(t),
	}
	for i := range m.inputs {
		m.inputs[i] = InputBinding{SrcModule: -1, SrcPort: -1}
	}
	return m
}

// newModuleState returns the type-specific default state. Defaults follow the
// hardware convention of a dead patch: oscillators at phase zero, envelopes
// idle, gains zero.
func newModuleState(t ModuleType) ModuleState {
	switch t {
	case MOD_PARAM:
		return &ParamState{}
	case MOD_GATE:
		return &GateState{}
	case MOD_VCO:
		return &VcoState{}
	case MOD_LFO:
		return &LfoState{}
	case MOD_ADSR:
		return &AdsrState{}
	case MOD_VCA:
		return &VcaState{}
	case MOD_MIX4:
		return &Mix4State{}
	case MOD_OUT:
		return &OutState{}
	}
	return nil
}
