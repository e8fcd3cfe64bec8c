// patch.go - Programmatic patch construction and the built-in demo patch

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

// defaultArity returns the canonical input/output port counts for a module
// type. Patch files may declare fewer or more (up to the per-module maximum)
// but nearly every patch wants these.
func defaultArity(t ModuleType) (numInputs, numOutputs int) {
	switch t {
	case MOD_PARAM:
		return 0, 1
	case MOD_GATE:
		return 0, 1
	case MOD_VCO:
		return 1, 1 // input 0: frequency CV, added in Hz
	case MOD_LFO:
		return 0, 1
	case MOD_ADSR:
		return 1, 1 // input 0: gate
	case MOD_VCA:
		return 2, 1 // input 0: signal, input 1: gain CV
	case MOD_MIX4:
		return 4, 1
	case MOD_OUT:
		return 2, 0 // inputs: L, R
	}
	return 0, 0
}

// SetModuleParam sets one named parameter on a module. The key space is
// per-type: param has "value", gate has "length", vco/lfo have "freq", adsr
// has "attack"/"decay"/"sustain"/"release", vca has "gain", mix4 has
// "gain0".."gain3". Both patch file loaders funnel through here.
func SetModuleParam(m *Module, key string, value float64) error {
	v := float32(value)
	switch s := m.State().(type) {
	case *ParamState:
		if key == "value" {
			s.Value = v
			return nil
		}
	case *GateState:
		if key == "length" {
			s.Length = v
			return nil
		}
	case *VcoState:
		if key == "freq" {
			s.Freq = v
			return nil
		}
	case *LfoState:
		if key == "freq" {
			s.Freq = v
			return nil
		}
	case *AdsrState:
		switch key {
		case "attack":
			s.Attack = v
			return nil
		case "decay":
			s.Decay = v
			return nil
		case "sustain":
			s.Sustain = v
			return nil
		case "release":
			s.Release = v
			return nil
		}
	case *VcaState:
		if key == "gain" {
			s.Gain = v
			return nil
		}
	case *Mix4State:
		switch key {
		case "gain0":
			s.Gains[0] = v
			return nil
		case "gain1":
			s.Gains[1] = v
			return nil
		case "gain2":
			s.Gains[2] = v
			return nil
		case "gain3":
			s.Gains[3] = v
			return nil
		}
	}
	return &RackError{
		Operation: "parameter set",
		Details:   fmt.Sprintf("module %q (%s) has no parameter %q", m.Name, m.Type, key),
	}
}

// addModule wraps Rack.AddModule with the default arity and an error return
// for the patch builders.
func addModule(r *Rack, t ModuleType, name string) (int, error) {
	in, out := defaultArity(t)
	h := r.AddModule(t, name, in, out)
	if h == INVALID_HANDLE {
		return INVALID_HANDLE, &RackError{
			Operation: "module add",
			Details:   fmt.Sprintf("rack full adding %q (limit %d modules)", name, MAX_MODULES),
		}
	}
	return h, nil
}

func connect(r *Rack, from, fromPort, to, toPort int) error {
	if !r.Connect(from, fromPort, to, toPort) {
		return &RackError{
			Operation: "connect",
			Details: fmt.Sprintf("wire %d:%d -> %d:%d rejected (full table or bad port)",
				from, fromPort, to, toPort),
		}
	}
	return nil
}

// BuildDemoPatch constructs the canonical demo voice:
//
//	ParamFreq(220Hz) -> VCO freq CV
//	Gate(1.0s)       -> ADSR gate
//	VCO              -> VCA signal
//	ADSR             -> VCA gain CV
//	VCA              -> OUT L and R
//
// One second of enveloped 220Hz sine, then the release tail, then silence.
func BuildDemoPatch(r *Rack) error {
	pFreq, err := addModule(r, MOD_PARAM, "ParamFreq")
	if err != nil {
		return err
	}
	r.Module(pFreq).State().(*ParamState).Value = 220

	gate, err := addModule(r, MOD_GATE, "Gate")
	if err != nil {
		return err
	}
	r.Module(gate).State().(*GateState).Length = 1.0

	vco, err := addModule(r, MOD_VCO, "VCO")
	if err != nil {
		return err
	}
	// base frequency stays 0; the Param drives pitch through the CV input

	env, err := addModule(r, MOD_ADSR, "ADSR")
	if err != nil {
		return err
	}
	adsr := r.Module(env).State().(*AdsrState)
	adsr.Attack = 0.01
	adsr.Decay = 0.25
	adsr.Sustain = 0.6
	adsr.Release = 0.5

	vca, err := addModule(r, MOD_VCA, "VCA")
	if err != nil {
		return err
	}
	// internal gain 0: fully controlled by the envelope CV

	out, err := addModule(r, MOD_OUT, "OUT")
	if err != nil {
		return err
	}

	for _, c := range []struct{ from, fromPort, to, toPort int }{
		{pFreq, 0, vco, 0},
		{gate, 0, env, 0},
		{vco, 0, vca, 0},
		{env, 0, vca, 1},
		{vca, 0, out, 0},
		{vca, 0, out, 1},
	} {
		if err := connect(r, c.from, c.fromPort, c.to, c.toPort); err != nil {
			return err
		}
	}
	return nil
}
