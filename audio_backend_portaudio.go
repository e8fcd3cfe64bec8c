//go:build portaudio

// audio_backend_portaudio.go - PortAudio output implementation (cgo)

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
	"sync"

	pa "github.com/gordonklaus/portaudio"
)

type PortaudioPlayer struct {
	stream  *pa.Stream
	engine  *RackEngine
	scratch []float32 // interleaved render buffer, resized in the callback
	started bool
	mutex   sync.Mutex
}

func newPortaudioPlayer(engine *RackEngine) (AudioOutput, error) {
	if err := pa.Initialize(); err != nil {
		return nil, &AudioError{
			Operation: "backend creation",
			Details:   "portaudio initialize",
			Err:       err,
		}
	}

	player := &PortaudioPlayer{engine: engine}
	stream, err := pa.OpenDefaultStream(
		0, 2,
		float64(engine.SampleRate()),
		pa.FramesPerBufferUnspecified,
		player.fill,
	)
	if err != nil {
		_ = pa.Terminate()
		return nil, &AudioError{
			Operation: "backend creation",
			Details:   "portaudio stream open",
			Err:       err,
		}
	}
	player.stream = stream
	return player, nil
}

// fill is the PortAudio callback: pull interleaved frames from the engine
// and split them into the per-channel output buffers.
func (pp *PortaudioPlayer) fill(out [][]float32) {
	frames := len(out[0])
	if len(pp.scratch) < frames*2 {
		pp.scratch = make([]float32, frames*2)
	}
	buf := pp.scratch[:frames*2]

	produced, _ := pp.engine.RenderFrames(buf)
	for i := 0; i < produced; i++ {
		out[0][i] = buf[2*i]
		out[1][i] = buf[2*i+1]
	}
	for i := produced; i < frames; i++ {
		out[0][i] = 0
		out[1][i] = 0
	}
}

func (pp *PortaudioPlayer) Start() {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if !pp.started && pp.stream != nil {
		if err := pp.stream.Start(); err == nil {
			pp.started = true
		}
	}
}

func (pp *PortaudioPlayer) Stop() {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.started && pp.stream != nil {
		_ = pp.stream.Stop()
		pp.started = false
	}
}

func (pp *PortaudioPlayer) Close() {
	pp.Stop()
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.stream != nil {
		_ = pp.stream.Close()
		pp.stream = nil
		_ = pa.Terminate()
	}
}

func (pp *PortaudioPlayer) IsStarted() bool {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()
	return pp.started
}
