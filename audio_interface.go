// audio_interface.go - Audio backend boundary for the rack engine

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

// AudioError provides detailed error context for audio operations
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

// AudioOutput is the periodic callback boundary the engine renders into.
// A backend pulls up to N interleaved stereo float32 frames per invocation
// via RackEngine.RenderFrames and keeps pulling until the engine reports
// RENDER_COMPLETE. The engine side never blocks on I/O.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// Predefined audio backend types
const (
	AUDIO_BACKEND_OTO       = iota // Pure Go oto backend
	AUDIO_BACKEND_PORTAUDIO        // PortAudio backend using cgo
)

// ParseAudioBackend maps the -backend flag value to a backend constant.
func ParseAudioBackend(name string) (int, error) {
	switch name {
	case "oto", "":
		return AUDIO_BACKEND_OTO, nil
	case "portaudio":
		return AUDIO_BACKEND_PORTAUDIO, nil
	}
	return 0, &AudioError{
		Operation: "backend selection",
		Details:   fmt.Sprintf("unknown backend %q", name),
	}
}

// NewAudioOutput creates a new audio output instance using the specified
// backend and attaches the engine to it.
func NewAudioOutput(backend int, engine *RackEngine) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(engine.SampleRate())
		if err != nil {
			return nil, &AudioError{
				Operation: "backend creation",
				Details:   "oto context setup",
				Err:       err,
			}
		}
		player.SetupPlayer(engine)
		return player, nil
	case AUDIO_BACKEND_PORTAUDIO:
		return newPortaudioPlayer(engine)
	}
	return nil, &AudioError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
