// engine.go - Per-sample evaluator driving the rack in topological order

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
	"math"
	"sync/atomic"
)

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

// EngineStatus is reported by RenderFrames after each fill.
type EngineStatus int

const (
	RENDER_CONTINUE EngineStatus = iota // more frames may follow
	RENDER_COMPLETE                     // frame budget exhausted
)

// EngineConfig fixes the session parameters. Neither can change once the
// engine exists; a new sample rate needs a fresh rack because every internal
// increment (oscillator phase, envelope steps, gate timers) derives from it.
type EngineConfig struct {
	SampleRate  int
	FrameBudget int // stereo frames to produce; negative means unbounded
}

// RackEngine walks the rack's cached topological order once per sample,
// resolving each module's inputs from a reused scratch table and collecting
// the terminal sink's clamped L/R pair. A single real-time execution context
// drives it; there is no locking on the hot path and no heap allocation
// beyond the scratch table allocated up front.
type RackEngine struct {
	rack       *Rack
	sampleRate float32
	unbounded  bool

	framesLeft     atomic.Int64
	framesRendered atomic.Int64
	peak           atomic.Uint32 // float32 bits, running peak of last fill

	scratch [][MAX_OUTPUTS]float32 // output values, indexed by module handle
	inBuf   [MAX_INPUTS]float32
	sink    *OutState
}

// NewRackEngine validates the session and prepares the scratch table.
// A rack without an Out module, or one whose topology has not been built,
// refuses to start.
func NewRackEngine(rack *Rack, cfg EngineConfig) (*RackEngine, error) {
	if cfg.SampleRate <= 0 {
		return nil, &RackError{
			Operation: "engine setup",
			Details:   "sample rate must be positive",
		}
	}
	if !rack.TopologyBuilt() {
		return nil, &RackError{
			Operation: "engine setup",
			Details:   "topology not built; call BuildTopology after the last Connect",
		}
	}
	out := rack.Module(rack.OutModule())
	if out == nil {
		return nil, &RackError{
			Operation: "engine setup",
			Details:   "no Out module registered in the rack",
		}
	}

	e := &RackEngine{
		rack:       rack,
		sampleRate: float32(cfg.SampleRate),
		unbounded:  cfg.FrameBudget < 0,
		scratch:    make([][MAX_OUTPUTS]float32, rack.ModuleCount()),
		sink:       out.State().(*OutState),
	}
	if !e.unbounded {
		e.framesLeft.Store(int64(cfg.FrameBudget))
	}
	return e, nil
}

func (e *RackEngine) SampleRate() int {
	return int(e.sampleRate)
}

// FramesRendered reports the total frames produced so far.
func (e *RackEngine) FramesRendered() int64 {
	return e.framesRendered.Load()
}

// FramesRemaining reports the outstanding budget, or -1 when unbounded.
func (e *RackEngine) FramesRemaining() int64 {
	if e.unbounded {
		return -1
	}
	return e.framesLeft.Load()
}

// Completed reports whether the frame budget is exhausted. An unbounded
// session never completes.
func (e *RackEngine) Completed() bool {
	return !e.unbounded && e.framesLeft.Load() <= 0
}

// Peak returns the largest absolute sample value of the most recent fill.
func (e *RackEngine) Peak() float32 {
	return math.Float32frombits(e.peak.Load())
}

// renderSample evaluates every module once in topological order and returns
// the sink's clamped stereo pair. Inputs resolve through the scratch table:
// a bound source necessarily precedes its consumer in a valid order, so its
// current-frame outputs are already present. Under a cycle fallback a source
// ordered later yields its previous frame's value instead.
func (e *RackEngine) renderSample() (float32, float32) {
	for _, h := range e.rack.topoOrder {
		m := e.rack.modules[h]
		for i := 0; i < m.NumInputs; i++ {
			b := m.inputs[i]
			if b.SrcModule < 0 {
				e.inBuf[i] = 0
				continue
			}
			e.inBuf[i] = e.scratch[b.SrcModule][b.SrcPort]
		}
		// Ports past the declared arity must read 0.0, not whatever the
		// previous module's resolution left behind: tick functions address
		// their type's full port layout regardless of declared arity.
		for i := m.NumInputs; i < MAX_INPUTS; i++ {
			e.inBuf[i] = 0
		}
		m.state.Tick(&e.inBuf, &e.scratch[h], e.sampleRate)
	}
	return e.sink.L, e.sink.R
}

// RenderFrames fills buf with interleaved stereo float32 samples, producing
// up to len(buf)/2 frames clamped by the outstanding budget. It returns the
// number of frames written and whether more will follow. Frames beyond the
// budget are not written; callers zero-fill if their backend needs it.
func (e *RackEngine) RenderFrames(buf []float32) (int, EngineStatus) {
	frames := len(buf) / 2
	if !e.unbounded {
		if left := e.framesLeft.Load(); left < int64(frames) {
			frames = int(left)
		}
	}
	if frames < 0 {
		frames = 0
	}

	var peak float32
	for i := 0; i < frames; i++ {
		l, r := e.renderSample()
		buf[2*i] = l
		buf[2*i+1] = r
		if a := float32(math.Abs(float64(l))); a > peak {
			peak = a
		}
		if a := float32(math.Abs(float64(r))); a > peak {
			peak = a
		}
	}
	e.peak.Store(math.Float32bits(peak))
	e.framesRendered.Add(int64(frames))

	if !e.unbounded {
		if e.framesLeft.Add(int64(-frames)) <= 0 {
			return frames, RENDER_COMPLETE
		}
	}
	return frames, RENDER_CONTINUE
}
