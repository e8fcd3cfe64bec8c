// engine_benchmark_test.go - Hot-path render benchmarks

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

import "testing"

func benchmarkRender(b *testing.B, buildPatch func(*Rack)) {
	rack := NewRack()
	buildPatch(rack)
	if err := rack.BuildTopology(); err != nil {
		b.Fatalf("BuildTopology: %v", err)
	}
	engine, err := NewRackEngine(rack, EngineConfig{SampleRate: 48000, FrameBudget: -1})
	if err != nil {
		b.Fatalf("NewRackEngine: %v", err)
	}

	buf := make([]float32, 2*512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.RenderFrames(buf)
	}
	b.SetBytes(int64(len(buf) * 4))
}

// BenchmarkRender_DemoVoice measures the six-module demo patch; the render
// loop must not allocate.
func BenchmarkRender_DemoVoice(b *testing.B) {
	benchmarkRender(b, func(rack *Rack) {
		if err := BuildDemoPatch(rack); err != nil {
			b.Fatalf("BuildDemoPatch: %v", err)
		}
	})
}

// BenchmarkRender_FullRack measures a wider graph: four voices of four
// oscillators each, mixed per voice and summed into a final mixer.
func BenchmarkRender_FullRack(b *testing.B) {
	benchmarkRender(b, func(rack *Rack) {
		sum := rack.AddModule(MOD_MIX4, "Sum", 4, 1)
		out := rack.AddModule(MOD_OUT, "OUT", 2, 0)
		rack.Module(sum).State().(*Mix4State).Gains = [4]float32{0.25, 0.25, 0.25, 0.25}
		rack.Connect(sum, 0, out, 0)
		rack.Connect(sum, 0, out, 1)

		voices := 0
		for rack.ModuleCount()+5 <= MAX_MODULES && voices < 4 {
			mix := rack.AddModule(MOD_MIX4, "VoiceMix", 4, 1)
			rack.Module(mix).State().(*Mix4State).Gains = [4]float32{0.25, 0.25, 0.25, 0.25}
			for i := 0; i < 4; i++ {
				osc := rack.AddModule(MOD_VCO, "Osc", 1, 1)
				rack.Module(osc).State().(*VcoState).Freq = float32(110 * (i + 1))
				rack.Connect(osc, 0, mix, i)
			}
			rack.Connect(mix, 0, sum, voices)
			voices++
		}
	})
}
