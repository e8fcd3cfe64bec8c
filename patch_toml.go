// patch_toml.go - Declarative TOML patch file loader

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

	"github.com/BurntSushi/toml"
)

// A TOML patch lists modules and the wires between them by name:
//
//	[[module]]
//	type = "param"
//	name = "ParamFreq"
//	params = { value = 220.0 }
//
//	[[module]]
//	type = "vco"
//	name = "VCO"
//
//	[[wire]]
//	from = "ParamFreq"
//	from_port = 0
//	to = "VCO"
//	to_port = 0
//
// Port counts default per type and may be overridden with inputs/outputs.
type tomlModule struct {
	Type    string             `toml:"type"`
	Name    string             `toml:"name"`
	Inputs  *int               `toml:"inputs"`
	Outputs *int               `toml:"outputs"`
	Params  map[string]float64 `toml:"params"`
}

type tomlWire struct {
	From     string `toml:"from"`
	FromPort int    `toml:"from_port"`
	To       string `toml:"to"`
	ToPort   int    `toml:"to_port"`
}

type tomlPatch struct {
	Module []tomlModule `toml:"module"`
	Wire   []tomlWire   `toml:"wire"`
}

// LoadTOMLPatch builds the rack described by a TOML patch file. Construction
// failures (capacity, bad ports, unknown names) abort with context; the rack
// is left partially built and should be discarded.
func LoadTOMLPatch(path string, r *Rack) error {
	var patch tomlPatch
	if _, err := toml.DecodeFile(path, &patch); err != nil {
		return &RackError{
			Operation: "patch load",
			Details:   path,
			Err:       err,
		}
	}

	for _, pm := range patch.Module {
		t, err := ParseModuleType(pm.Type)
		if err != nil {
			return &RackError{Operation: "patch load", Details: path, Err: err}
		}
		if pm.Name == "" {
			return &RackError{
				Operation: "patch load",
				Details:   fmt.Sprintf("%s: %s module without a name", path, pm.Type),
			}
		}
		if r.FindModule(pm.Name) != INVALID_HANDLE {
			return &RackError{
				Operation: "patch load",
				Details:   fmt.Sprintf("%s: duplicate module name %q", path, pm.Name),
			}
		}

		numIn, numOut := defaultArity(t)
		if pm.Inputs != nil {
			numIn = *pm.Inputs
		}
		if pm.Outputs != nil {
			numOut = *pm.Outputs
		}
		h := r.AddModule(t, pm.Name, numIn, numOut)
		if h == INVALID_HANDLE {
			return &RackError{
				Operation: "patch load",
				Details:   fmt.Sprintf("%s: module %q rejected (capacity or arity)", path, pm.Name),
			}
		}
		for key, value := range pm.Params {
			if err := SetModuleParam(r.Module(h), key, value); err != nil {
				return err
			}
		}
	}

	for _, pw := range patch.Wire {
		from := r.FindModule(pw.From)
		if from == INVALID_HANDLE {
			return &RackError{
				Operation: "patch load",
				Details:   fmt.Sprintf("%s: wire from unknown module %q", path, pw.From),
			}
		}
		to := r.FindModule(pw.To)
		if to == INVALID_HANDLE {
			return &RackError{
				Operation: "patch load",
				Details:   fmt.Sprintf("%s: wire to unknown module %q", path, pw.To),
			}
		}
		if !r.Connect(from, pw.FromPort, to, pw.ToPort) {
			return &RackError{
				Operation: "patch load",
				Details: fmt.Sprintf("%s: wire %s:%d -> %s:%d rejected",
					path, pw.From, pw.FromPort, pw.To, pw.ToPort),
			}
		}
	}
	return nil
}
