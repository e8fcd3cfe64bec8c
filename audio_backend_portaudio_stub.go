//go:build !portaudio

package main

// Builds without the portaudio tag omit the cgo backend entirely.
func newPortaudioPlayer(engine *RackEngine) (AudioOutput, error) {
	return nil, &AudioError{
		Operation: "backend creation",
		Details:   "built without portaudio support (rebuild with -tags portaudio)",
	}
}
