// Package audio converts declared-format audio bytes into the fixed-rate mono
// waveform every classification backend consumes.
package audio

import (
	"encoding/binary"
	"time"
)

// Waveform is a mono PCM signal normalized to [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the waveform length in time.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// PCM16 returns the samples as little-endian 16-bit signed PCM bytes, the wire
// form sent to inference backends.
func (w Waveform) PCM16() []byte {
	out := make([]byte, len(w.Samples)*2)
	for i, s := range w.Samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*32767.0)))
	}
	return out
}

// Silence returns d of digital silence at the given rate. Used to warm up the
// model pool before serving traffic.
func Silence(d time.Duration, sampleRate int) Waveform {
	n := int(d.Seconds() * float64(sampleRate))
	return Waveform{Samples: make([]float32, n), SampleRate: sampleRate}
}
