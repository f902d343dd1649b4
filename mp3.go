package morse

import (
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"
)

// go-mp3 always decodes to 16-bit little endian stereo.
const mp3BytesPerFrame = 4

type mp3Decoder struct {
	decoder *mp3.Decoder
}

func newMP3Decoder(r io.ReadSeeker) (audioDecoder, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "new mp3 decoder failed")
	}

	return &mp3Decoder{decoder: decoder}, nil
}

// SampleRate ...
func (md mp3Decoder) SampleRate() int {
	return md.decoder.SampleRate()
}

// PCMBuffer returns mono samples between start and end seconds.
func (md mp3Decoder) PCMBuffer(start, end float64) ([]int, error) {
	sampleRate := float64(md.decoder.SampleRate())
	firstFrame := int64(start * sampleRate)
	if firstFrame < 0 {
		firstFrame = 0
	}
	if _, err := md.decoder.Seek(firstFrame*mp3BytesPerFrame, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek mp3 failed")
	}

	framesNeeded := -1
	if end > 0 {
		framesNeeded = int(end*sampleRate) - int(firstFrame)
		if framesNeeded <= 0 {
			return nil, nil
		}
	}

	var pcm []int
	if framesNeeded > 0 {
		pcm = make([]int, 0, framesNeeded)
	}
	readBuffer := make([]byte, 4096)
	for framesNeeded != 0 {
		n, err := io.ReadFull(md.decoder, readBuffer)
		for i := 0; i+mp3BytesPerFrame <= n && framesNeeded != 0; i += mp3BytesPerFrame {
			left := int(int16(uint16(readBuffer[i]) | uint16(readBuffer[i+1])<<8))
			right := int(int16(uint16(readBuffer[i+2]) | uint16(readBuffer[i+3])<<8))
			pcm = append(pcm, (left+right)/2)
			if framesNeeded > 0 {
				framesNeeded--
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read mp3 failed")
		}
	}

	return pcm, nil
}
