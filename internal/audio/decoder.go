package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	resampling "github.com/tphakala/go-audio-resampling"

	"audioshield/internal/types"
)

// Decode turns raw audio bytes in the declared format into a mono waveform at
// targetRate. Unknown format tags fail with types.ErrUnsupportedFormat,
// malformed payloads with types.ErrDecode.
func Decode(data []byte, format string, targetRate int) (Waveform, error) {
	if len(data) == 0 {
		return Waveform{}, types.ErrEmptyAudio
	}

	var (
		mono    []float32
		srcRate int
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "mp3":
		mono, srcRate, err = decodeMP3(data)
	case "wav", "wave":
		mono, srcRate, err = decodeWAV(data)
	default:
		return Waveform{}, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Waveform{}, err
	}
	if len(mono) == 0 {
		return Waveform{}, fmt.Errorf("%w: no samples decoded", types.ErrDecode)
	}

	mono, err = resample(mono, srcRate, targetRate)
	if err != nil {
		return Waveform{}, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}
	return Waveform{Samples: mono, SampleRate: targetRate}, nil
}

// decodeMP3 decodes MP3 frames to mono float32 at the stream's native rate.
// go-mp3 always emits 16-bit little-endian stereo.
func decodeMP3(data []byte) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}

	frames := len(pcm) / 4
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		mono[i] = float32(int32(l)+int32(r)) / 2 / 32768.0
	}
	return mono, dec.SampleRate(), nil
}

// decodeWAV decodes a RIFF/WAVE payload to mono float32 at its declared rate,
// averaging channels when the file is not already mono.
func decodeWAV(data []byte) ([]float32, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a valid WAVE file", types.ErrDecode)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, 0, fmt.Errorf("%w: no channels", types.ErrDecode)
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum int64
		for c := 0; c < channels; c++ {
			sum += int64(buf.Data[i*channels+c])
		}
		mono[i] = float32(sum) / float32(channels) / scale
	}
	return mono, buf.Format.SampleRate, nil
}

// resample converts a mono signal from srcRate to dstRate.
func resample(samples []float32, srcRate, dstRate int) ([]float32, error) {
	if srcRate == dstRate {
		return samples, nil
	}
	if srcRate <= 0 {
		return nil, fmt.Errorf("invalid source sample rate %d", srcRate)
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s)
	}
	out, err := r.Process(in)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	converted := make([]float32, len(out))
	for i, s := range out {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		converted[i] = float32(s)
	}
	return converted, nil
}
