// patch_test.go - Patch construction and file loader tests

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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePatchFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestBuildDemoPatch(t *testing.T) {
	rack := NewRack()
	if err := BuildDemoPatch(rack); err != nil {
		t.Fatalf("BuildDemoPatch: %v", err)
	}
	if rack.ModuleCount() != 6 {
		t.Fatalf("demo patch has %d modules, want 6", rack.ModuleCount())
	}
	if rack.WireCount() != 6 {
		t.Fatalf("demo patch has %d wires, want 6", rack.WireCount())
	}
	if rack.OutModule() == INVALID_HANDLE {
		t.Fatal("demo patch registered no Out module")
	}

	freq := rack.Module(rack.FindModule("ParamFreq")).State().(*ParamState)
	if freq.Value != 220 {
		t.Fatalf("ParamFreq value %v, want 220", freq.Value)
	}
	env := rack.Module(rack.FindModule("ADSR")).State().(*AdsrState)
	if env.Attack != 0.01 || env.Decay != 0.25 || env.Sustain != 0.6 || env.Release != 0.5 {
		t.Fatalf("ADSR settings %+v, want 0.01/0.25/0.6/0.5", env)
	}
}

func TestSetModuleParam_UnknownKey(t *testing.T) {
	rack := NewRack()
	h := rack.AddModule(MOD_VCO, "VCO", 1, 1)
	err := SetModuleParam(rack.Module(h), "wavetable", 1)
	if err == nil {
		t.Fatal("unknown key accepted")
	}
	if !strings.Contains(err.Error(), "wavetable") {
		t.Fatalf("error %q does not name the bad key", err)
	}
}

const demoTOML = `
[[module]]
type = "param"
name = "ParamFreq"
params = { value = 220.0 }

[[module]]
type = "gate"
name = "Gate"
params = { length = 1.0 }

[[module]]
type = "vco"
name = "VCO"

[[module]]
type = "adsr"
name = "ADSR"
params = { attack = 0.01, decay = 0.25, sustain = 0.6, release = 0.5 }

[[module]]
type = "vca"
name = "VCA"

[[module]]
type = "out"
name = "OUT"

[[wire]]
from = "ParamFreq"
from_port = 0
to = "VCO"
to_port = 0

[[wire]]
from = "Gate"
from_port = 0
to = "ADSR"
to_port = 0

[[wire]]
from = "VCO"
from_port = 0
to = "VCA"
to_port = 0

[[wire]]
from = "ADSR"
from_port = 0
to = "VCA"
to_port = 1

[[wire]]
from = "VCA"
from_port = 0
to = "OUT"
to_port = 0

[[wire]]
from = "VCA"
from_port = 0
to = "OUT"
to_port = 1
`

func TestLoadTOMLPatch(t *testing.T) {
	path := writePatchFile(t, "demo.toml", demoTOML)
	rack := NewRack()
	if err := LoadTOMLPatch(path, rack); err != nil {
		t.Fatalf("LoadTOMLPatch: %v", err)
	}
	if rack.ModuleCount() != 6 || rack.WireCount() != 6 {
		t.Fatalf("loaded %d modules / %d wires, want 6 / 6", rack.ModuleCount(), rack.WireCount())
	}

	gate := rack.Module(rack.FindModule("Gate")).State().(*GateState)
	if gate.Length != 1.0 {
		t.Fatalf("gate length %v, want 1.0", gate.Length)
	}

	// The loaded patch must actually run.
	if err := rack.BuildTopology(); err != nil {
		t.Fatalf("BuildTopology: %v", err)
	}
	engine, err := NewRackEngine(rack, EngineConfig{SampleRate: 48000, FrameBudget: 4800})
	if err != nil {
		t.Fatalf("NewRackEngine: %v", err)
	}
	buf := make([]float32, 9600)
	engine.RenderFrames(buf)
	silent := true
	for _, s := range buf {
		if s != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Fatal("TOML demo patch rendered silence")
	}
}

func TestLoadTOMLPatch_Errors(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			"unknown module type",
			"[[module]]\ntype = \"theremin\"\nname = \"X\"\n",
			"theremin",
		},
		{
			"missing name",
			"[[module]]\ntype = \"vco\"\n",
			"without a name",
		},
		{
			"duplicate name",
			"[[module]]\ntype = \"vco\"\nname = \"X\"\n\n[[module]]\ntype = \"lfo\"\nname = \"X\"\n",
			"duplicate",
		},
		{
			"wire from unknown module",
			"[[module]]\ntype = \"out\"\nname = \"OUT\"\n\n[[wire]]\nfrom = \"ghost\"\nfrom_port = 0\nto = \"OUT\"\nto_port = 0\n",
			"unknown module",
		},
		{
			"wire to bad port",
			"[[module]]\ntype = \"vco\"\nname = \"VCO\"\n\n[[module]]\ntype = \"out\"\nname = \"OUT\"\n\n[[wire]]\nfrom = \"VCO\"\nfrom_port = 0\nto = \"OUT\"\nto_port = 7\n",
			"rejected",
		},
		{
			"unknown parameter",
			"[[module]]\ntype = \"vco\"\nname = \"VCO\"\nparams = { wavetable = 1.0 }\n",
			"wavetable",
		},
	}
	for _, tc := range cases {
		path := writePatchFile(t, "bad.toml", tc.contents)
		err := LoadTOMLPatch(path, NewRack())
		if err == nil {
			t.Errorf("%s: load succeeded", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q missing %q", tc.name, err, tc.want)
		}
	}
}

const demoLua = `
freq = add_module("param", "ParamFreq")
set_param(freq, "value", 220)

gate = add_module("gate", "Gate")
set_param(gate, "length", 1.0)

vco = add_module("vco", "VCO")
env = add_module("adsr", "ADSR")
set_param(env, "attack", 0.01)
set_param(env, "decay", 0.25)
set_param(env, "sustain", 0.6)
set_param(env, "release", 0.5)

vca = add_module("vca", "VCA")
out = add_module("out", "OUT")

connect(freq, 0, vco, 0)
connect(gate, 0, env, 0)
connect(vco, 0, vca, 0)
connect(env, 0, vca, 1)
connect(vca, 0, out, 0)
connect(vca, 0, out, 1)
`

func TestLoadLuaPatch(t *testing.T) {
	path := writePatchFile(t, "demo.lua", demoLua)
	rack := NewRack()
	if err := LoadLuaPatch(path, rack); err != nil {
		t.Fatalf("LoadLuaPatch: %v", err)
	}
	if rack.ModuleCount() != 6 || rack.WireCount() != 6 {
		t.Fatalf("loaded %d modules / %d wires, want 6 / 6", rack.ModuleCount(), rack.WireCount())
	}
	freq := rack.Module(rack.FindModule("ParamFreq")).State().(*ParamState)
	if freq.Value != 220 {
		t.Fatalf("ParamFreq value %v, want 220", freq.Value)
	}
}

func TestLoadLuaPatch_ScriptedVoices(t *testing.T) {
	// Scripted construction is the reason Lua patches exist: a loop builds
	// a small additive bank feeding a mixer.
	script := `
mix = add_module("mix4", "Mix")
out = add_module("out", "OUT")
for i = 0, 3 do
  local osc = add_module("lfo", "Osc" .. i)
  set_param(osc, "freq", 110 * (i + 1))
  connect(osc, 0, mix, i)
  set_param(mix, "gain" .. i, 0.25)
end
connect(mix, 0, out, 0)
connect(mix, 0, out, 1)
`
	path := writePatchFile(t, "bank.lua", script)
	rack := NewRack()
	if err := LoadLuaPatch(path, rack); err != nil {
		t.Fatalf("LoadLuaPatch: %v", err)
	}
	if rack.ModuleCount() != 6 {
		t.Fatalf("scripted bank has %d modules, want 6", rack.ModuleCount())
	}
	if rack.WireCount() != 6 {
		t.Fatalf("scripted bank has %d wires, want 6", rack.WireCount())
	}
	mix := rack.Module(rack.FindModule("Mix")).State().(*Mix4State)
	for i, g := range mix.Gains {
		if g != 0.25 {
			t.Fatalf("mixer gain %d = %v, want 0.25", i, g)
		}
	}
}

func TestLoadLuaPatch_Errors(t *testing.T) {
	cases := []struct {
		name   string
		script string
	}{
		{"unknown type", `add_module("theremin", "X")`},
		{"bad connect", `a = add_module("vco", "A") connect(a, 5, a, 0)`},
		{"bad handle", `set_param(42, "freq", 1)`},
		{"lua syntax error", `add_module(`},
	}
	for _, tc := range cases {
		path := writePatchFile(t, "bad.lua", tc.script)
		if err := LoadLuaPatch(path, NewRack()); err == nil {
			t.Errorf("%s: load succeeded", tc.name)
		}
	}
}
