// Package audio plays short punch and chime cues through portaudio.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 44100
	bufferSize = 512

	masterVolume = 0.22
	maxCues      = 32
)

// cue is one synthesized tone with a decay envelope, optionally delayed.
type cue struct {
	freq    float64
	dur     float64
	delay   float64
	elapsed float64
}

// Player owns an output-only portaudio stream and synthesizes cues inside
// the stream callback. A nil Player is silent: every method is a no-op, so
// callers can run without sound when the device is unavailable.
type Player struct {
	stream *portaudio.Stream

	mu   sync.Mutex
	cues []cue
}

// New opens the default output device. Failure is expected on machines
// without audio; callers treat it as non-fatal.
func New() (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	p := &Player{}
	// Output only (0 in, 2 out); duplex streams often fail on Linux when
	// input and output devices differ.
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, p.synthesize)
	if err != nil {
		// Best-effort terminate.
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		// Best-effort teardown.
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

// Punch plays the short click of one column being punched.
func (p *Player) Punch() {
	if p == nil {
		return
	}
	p.add(cue{freq: 1400, dur: 0.04})
}

// Chime plays the two-tone message-complete signal.
func (p *Player) Chime() {
	if p == nil {
		return
	}
	p.add(cue{freq: 659.25, dur: 0.16})
	p.add(cue{freq: 880.00, dur: 0.20, delay: 0.12})
}

func (p *Player) add(c cue) {
	p.mu.Lock()
	if len(p.cues) < maxCues {
		p.cues = append(p.cues, c)
	}
	p.mu.Unlock()
}

// Close stops the stream and releases portaudio.
func (p *Player) Close() {
	if p == nil || p.stream == nil {
		return
	}
	// Best-effort teardown.
	_ = p.stream.Stop()
	_ = p.stream.Close()
	_ = portaudio.Terminate()
	p.stream = nil
}

// Triangle wave: smooth, click-free, no harsh buzz.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

func (p *Player) synthesize(out [][]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dt := 1.0 / float64(sampleRate)
	for i := range out[0] {
		var sample float64
		for j := range p.cues {
			c := &p.cues[j]
			if c.delay > 0 {
				c.delay -= dt
				continue
			}
			if c.elapsed >= c.dur {
				continue
			}
			env := 1.0 - c.elapsed/c.dur
			sample += triangle(c.elapsed*c.freq) * env * env
			c.elapsed += dt
		}
		v := float32(sample * masterVolume)
		out[0][i] = v
		out[1][i] = v
	}

	live := p.cues[:0]
	for _, c := range p.cues {
		if c.delay > 0 || c.elapsed < c.dur {
			live = append(live, c)
		}
	}
	p.cues = live
}
