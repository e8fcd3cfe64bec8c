// wav_writer.go - Offline render of a rack session to a RIFF/WAVE file

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
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// WAV layout constants for 32-bit float stereo (WAVE_FORMAT_IEEE_FLOAT).
const (
	WAV_FORMAT_FLOAT = 3
	WAV_CHANNELS     = 2
	WAV_BITS         = 32
	WAV_HEADER_SIZE  = 56 // RIFF + fmt + fact + data headers
)

// RenderToWAV drives the engine to completion offline and writes the result
// as an interleaved 32-bit float stereo WAV file. The session must have a
// finite frame budget; an unbounded render has no file to end.
func RenderToWAV(engine *RackEngine, path string) error {
	if engine.FramesRemaining() < 0 {
		return &AudioError{
			Operation: "wav render",
			Details:   "unbounded frame budget; pass a finite duration",
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &AudioError{Operation: "wav render", Details: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeWAVHeader(w, engine.SampleRate(), 0); err != nil {
		return &AudioError{Operation: "wav render", Details: path, Err: err}
	}

	scratch := make([]float32, 4096*2)
	var totalFrames uint32
	for {
		frames, status := engine.RenderFrames(scratch)
		if frames > 0 {
			if err := binary.Write(w, binary.LittleEndian, scratch[:frames*2]); err != nil {
				return &AudioError{Operation: "wav render", Details: path, Err: err}
			}
			totalFrames += uint32(frames)
		}
		if status == RENDER_COMPLETE {
			break
		}
	}
	if err := w.Flush(); err != nil {
		return &AudioError{Operation: "wav render", Details: path, Err: err}
	}

	// Rewrite the header now that the frame count is known.
	if _, err := f.Seek(0, 0); err != nil {
		return &AudioError{Operation: "wav render", Details: path, Err: err}
	}
	hw := bufio.NewWriter(f)
	if err := writeWAVHeader(hw, engine.SampleRate(), totalFrames); err != nil {
		return &AudioError{Operation: "wav render", Details: path, Err: err}
	}
	if err := hw.Flush(); err != nil {
		return &AudioError{Operation: "wav render", Details: path, Err: err}
	}
	return nil
}

func writeWAVHeader(w *bufio.Writer, sampleRate int, frames uint32) error {
	dataSize := frames * WAV_CHANNELS * (WAV_BITS / 8)
	blockAlign := uint16(WAV_CHANNELS * (WAV_BITS / 8))
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	var err error
	put := func(v interface{}) {
		if err == nil {
			err = binary.Write(w, binary.LittleEndian, v)
		}
	}

	put([]byte("RIFF"))
	put(uint32(WAV_HEADER_SIZE - 8 + dataSize))
	put([]byte("WAVE"))

	put([]byte("fmt "))
	put(uint32(16))
	put(uint16(WAV_FORMAT_FLOAT))
	put(uint16(WAV_CHANNELS))
	put(uint32(sampleRate))
	put(byteRate)
	put(blockAlign)
	put(uint16(WAV_BITS))

	put([]byte("fact"))
	put(uint32(4))
	put(frames)

	put([]byte("data"))
	put(dataSize)

	if err != nil {
		return fmt.Errorf("wav header: %w", err)
	}
	return nil
}
