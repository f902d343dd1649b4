package morse

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func init() {
	registerAudioDecoder(AudioTypeMp3, newMP3Decoder)
	registerAudioDecoder(AudioTypeWav, newWavDecoder)
}

// audioDecoder yields mono PCM samples for a time window in seconds.
type audioDecoder interface {
	PCMBuffer(start, end float64) ([]int, error)
	SampleRate() int
}

type audioDecoderGenerator func(r io.ReadSeeker) (audioDecoder, error)

var audioDecoders map[AudioType]audioDecoderGenerator

// AudioType names an input container the listener can read.
type AudioType string

const (
	AudioTypeWav AudioType = "wav"
	AudioTypeMp3 AudioType = "mp3"
)

// AudioTypeFromPath guesses the audio type from a file extension.
func AudioTypeFromPath(path string) (AudioType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	typ := AudioType(ext)
	if _, ok := audioDecoders[typ]; !ok {
		return "", errors.Errorf("unsupported audio type: %q", ext)
	}
	return typ, nil
}

func registerAudioDecoder(a AudioType, g audioDecoderGenerator) {
	if audioDecoders == nil {
		audioDecoders = make(map[AudioType]audioDecoderGenerator)
	}

	audioDecoders[a] = g
}
