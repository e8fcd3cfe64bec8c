// terminal_status.go - Render progress line for interactive sessions

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
	"os"
	"strings"

	"golang.org/x/term"
)

const VU_BAR_WIDTH = 24

// StatusLine redraws a single progress/VU line while the engine renders.
// It stays silent when stdout is not a terminal so piped output stays clean.
type StatusLine struct {
	enabled bool
	fd      int
}

func NewStatusLine() *StatusLine {
	fd := int(os.Stdout.Fd())
	return &StatusLine{
		enabled: term.IsTerminal(fd),
		fd:      fd,
	}
}

// Update redraws the line with elapsed time and the engine's last peak.
func (s *StatusLine) Update(engine *RackEngine) {
	if !s.enabled {
		return
	}

	elapsed := float64(engine.FramesRendered()) / float64(engine.SampleRate())
	peak := engine.Peak()

	filled := int(peak * VU_BAR_WIDTH)
	if filled > VU_BAR_WIDTH {
		filled = VU_BAR_WIDTH
	}
	colour := "\033[32m" // green
	if peak >= 0.99 {
		colour = "\033[31m" // red at the clamp ceiling
	}
	bar := colour + strings.Repeat("#", filled) + "\033[0m" + strings.Repeat("-", VU_BAR_WIDTH-filled)

	line := fmt.Sprintf("\r%8.2fs  [%s] peak %.3f", elapsed, bar, peak)
	if width, _, err := term.GetSize(s.fd); err == nil && len(line) > width {
		line = line[:width]
	}
	fmt.Print(line)
}

// Finish terminates the progress line so later output starts on a fresh row.
func (s *StatusLine) Finish() {
	if s.enabled {
		fmt.Println()
	}
}
