// main.go - Main entry point for the IntuitionRack modular synth engine

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
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

func boilerPlate() {
	fmt.Println("\nIntuitionRack - a tiny modular synth rack engine.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionRack")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
}

func main() {
	var (
		sampleRate  int
		duration    float64
		backendName string
		wavPath     string
		demo        bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&sampleRate, "sr", 48000, "Sample rate in Hz")
	flagSet.Float64Var(&duration, "d", 6, "Render duration in seconds (negative = run until killed)")
	flagSet.StringVar(&backendName, "backend", "oto", "Audio backend: oto or portaudio")
	flagSet.StringVar(&wavPath, "wav", "", "Render offline to a WAV file instead of playing")
	flagSet.BoolVar(&demo, "demo", false, "Play the built-in demo patch")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_rack [-sr 48000] [-d 6] [-backend oto] [-wav out.wav] [-demo | patch.toml | patch.lua]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	boilerPlate()

	patchPath := flagSet.Arg(0)
	if patchPath == "" {
		demo = true
	}

	rack := NewRack()
	switch {
	case demo:
		if err := BuildDemoPatch(rack); err != nil {
			fmt.Printf("Error building demo patch: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Patch: built-in demo voice (Param -> VCO -> VCA <- ADSR <- Gate -> OUT)")
	default:
		var err error
		switch ext := filepath.Ext(patchPath); ext {
		case ".toml":
			err = LoadTOMLPatch(patchPath, rack)
		case ".lua":
			err = LoadLuaPatch(patchPath, rack)
		default:
			err = fmt.Errorf("unsupported patch file extension %q (want .toml or .lua)", ext)
		}
		if err != nil {
			fmt.Printf("Error loading patch: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Patch: %s (%d modules, %d wires)\n", patchPath, rack.ModuleCount(), rack.WireCount())
	}

	if err := rack.BuildTopology(); err != nil {
		// Non-fatal: the engine degrades to creation order.
		fmt.Printf("\033[33m[warn]\033[0m %v\n", err)
	}

	budget := -1
	if duration >= 0 {
		budget = int(duration * float64(sampleRate))
	}

	engine, err := NewRackEngine(rack, EngineConfig{
		SampleRate:  sampleRate,
		FrameBudget: budget,
	})
	if err != nil {
		fmt.Printf("Failed to initialize engine: %v\n", err)
		os.Exit(1)
	}

	if wavPath != "" {
		if err := RenderToWAV(engine, wavPath); err != nil {
			fmt.Printf("Error rendering WAV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered %d frames at %dHz to %s\n",
			engine.FramesRendered(), sampleRate, wavPath)
		return
	}

	backend, err := ParseAudioBackend(backendName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	output, err := NewAudioOutput(backend, engine)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}

	output.Start()
	status := NewStatusLine()
	for !engine.Completed() {
		time.Sleep(50 * time.Millisecond)
		status.Update(engine)
	}
	status.Finish()

	output.Stop()
	output.Close()

	fmt.Printf("Done: %d frames at %dHz\n", engine.FramesRendered(), sampleRate)
}
