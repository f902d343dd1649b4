package morse

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
	"github.com/pkg/errors"
)

const (
	wavFormatPCM  = 1
	wavBitDepth   = 16
	wavHeaderSize = 44
)

type wavDecoder struct {
	decoder *wav.Decoder
	mono    []int // read on first use, the pcm chunk can only be read once
}

func newWavDecoder(r io.ReadSeeker) (audioDecoder, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.Errorf("invalid wav file")
	}

	return &wavDecoder{decoder: decoder}, nil
}

// SampleRate ...
func (wd *wavDecoder) SampleRate() int {
	return int(wd.decoder.SampleRate)
}

// PCMBuffer returns mono samples between start and end seconds.
func (wd *wavDecoder) PCMBuffer(start, end float64) ([]int, error) {
	decoder := wd.decoder
	if wd.mono == nil {
		buf, err := decoder.FullPCMBuffer()
		if err != nil {
			return nil, errors.Wrap(err, "read wav pcm failed")
		}

		numChannels := int(decoder.NumChans)
		if numChannels < 1 {
			numChannels = 1
		}
		wd.mono = downmix(buf.Data, numChannels)
	}

	sampleRate := float64(decoder.SampleRate)
	return clip(wd.mono, int(sampleRate*start), int(sampleRate*end)), nil
}

// downmix averages interleaved frames into a single channel.
func downmix(data []int, numChannels int) []int {
	if numChannels == 1 {
		return data
	}

	frames := len(data) / numChannels
	mono := make([]int, frames)
	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < numChannels; c++ {
			sum += data[i*numChannels+c]
		}
		mono[i] = sum / numChannels
	}
	return mono
}

// clip returns samples[from:to]; to <= 0 means the end of the slice.
func clip(samples []int, from, to int) []int {
	if from < 0 {
		from = 0
	}
	if to <= 0 || to > len(samples) {
		to = len(samples)
	}
	if from >= to {
		return nil
	}
	return samples[from:to]
}

// encodeWav wraps 16-bit mono samples in a RIFF/WAVE container.
func encodeWav(samples []int, sampleRate int) ([]byte, error) {
	// the encoder seeks back to patch chunk sizes on Close
	out := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(out, sampleRate, wavBitDepth, 1, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: wavBitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return io.ReadAll(out.Reader())
}
