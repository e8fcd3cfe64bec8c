// module_dsp.go - Per-sample DSP tick functions for each module type

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

import "math"

const TWO_PI = 2 * math.Pi

// MIN_ENV_SECONDS floors the envelope segment times to avoid division by zero.
const MIN_ENV_SECONDS = 1e-5

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ParamState emits a constant control value.
type ParamState struct {
	Value float32
}

func (p *ParamState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	out[0] = p.Value
}

// GateState holds the gate high for Length seconds from the start of the
// render, then low. The timer is monotonic and never resets on its own.
type GateState struct {
	Length float32 // seconds
	t      float32 // elapsed seconds
}

func (g *GateState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	if g.t < g.Length {
		out[0] = 1.0
	} else {
		out[0] = 0.0
	}
	g.t += 1.0 / sampleRate
}

// tickSine advances a phase accumulator by freq Hz and returns the sine of
// the new phase. Negative frequencies clamp to zero; phase stays in [0, 2pi).
func tickSine(phase *float32, freq, sampleRate float32) float32 {
	if freq < 0 {
		freq = 0
	}
	*phase += TWO_PI * freq / sampleRate
	if *phase >= TWO_PI {
		*phase -= TWO_PI
	}
	return float32(math.Sin(float64(*phase)))
}

// VcoState is a sine oscillator whose effective frequency is the base
// frequency plus the CV input, added in the Hz domain.
type VcoState struct {
	Freq  float32 // base frequency, Hz
	phase float32
}

func (v *VcoState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	out[0] = tickSine(&v.phase, v.Freq+in[0], sampleRate)
}

// LfoState is an independent sine oscillator with no CV input.
type LfoState struct {
	Freq  float32 // Hz
	phase float32
}

func (l *LfoState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	out[0] = tickSine(&l.phase, l.Freq, sampleRate)
}

// Envelope stages for AdsrState.
const (
	ENV_IDLE = iota
	ENV_ATTACK
	ENV_DECAY
	ENV_SUSTAIN
	ENV_RELEASE
)

// AdsrState is a linear four-segment envelope generator. The gate input is
// thresholded at 0.5: gate high moves Idle or Release into Attack, gate low
// moves any non-Idle stage into Release. The output level is clamped to
// [0, 1] every sample.
type AdsrState struct {
	Attack  float32 // seconds
	Decay   float32 // seconds
	Sustain float32 // level, 0..1
	Release float32 // seconds

	level float32
	stage int
}

// Stage reports the current envelope stage (ENV_IDLE..ENV_RELEASE).
func (a *AdsrState) Stage() int {
	return a.stage
}

func (a *AdsrState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	atk := max(a.Attack, MIN_ENV_SECONDS)
	dec := max(a.Decay, MIN_ENV_SECONDS)
	sus := clampf(a.Sustain, 0, 1)
	rel := max(a.Release, MIN_ENV_SECONDS)

	env := a.level
	if in[0] >= 0.5 {
		if a.stage == ENV_IDLE || a.stage == ENV_RELEASE {
			a.stage = ENV_ATTACK
		}
		switch a.stage {
		case ENV_ATTACK:
			env += 1.0 / (atk * sampleRate)
			if env >= 1.0 {
				env = 1.0
				a.stage = ENV_DECAY
			}
		case ENV_DECAY:
			if env > sus {
				env -= 1.0 / (dec * sampleRate)
			}
			if env <= sus {
				env = sus
				a.stage = ENV_SUSTAIN
			}
		case ENV_SUSTAIN:
			env = sus
		}
	} else {
		if a.stage != ENV_IDLE {
			a.stage = ENV_RELEASE
		}
		if a.stage == ENV_RELEASE {
			env -= 1.0 / (rel * sampleRate)
			if env <= 0 {
				env = 0
				a.stage = ENV_IDLE
			}
		}
	}
	a.level = clampf(env, 0, 1)
	out[0] = a.level
}

// VcaState multiplies the signal input by a gain. A nonzero CV on input 1
// overrides the internal gain; a CV of exactly 0.0 is indistinguishable from
// an unconnected jack and falls back to the internal gain. This quirk is
// preserved deliberately for parity with existing patches.
type VcaState struct {
	Gain float32
}

func (v *VcaState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	g := v.Gain
	if in[1] != 0 {
		g = in[1]
	}
	out[0] = in[0] * g
}

// Mix4State sums four inputs through per-channel gain coefficients.
type Mix4State struct {
	Gains [4]float32
}

func (m *Mix4State) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	out[0] = in[0]*m.Gains[0] + in[1]*m.Gains[1] + in[2]*m.Gains[2] + in[3]*m.Gains[3]
}

// OutState is the terminal sink. It produces no graph outputs; the clamped
// L/R pair is read by the evaluator after each pass.
type OutState struct {
	L float32
	R float32
}

func (o *OutState) Tick(in *[MAX_INPUTS]float32, out *[MAX_OUTPUTS]float32, sampleRate float32) {
	o.L = clampf(in[0], MIN_SAMPLE, MAX_SAMPLE)
	o.R = clampf(in[1], MIN_SAMPLE, MAX_SAMPLE)
}
