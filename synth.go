package morse

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Element lengths in units.
const (
	dotUnits       = 1
	dashUnits      = 3
	intraGapUnits  = 1
	letterGapUnits = 3
	wordGapUnits   = 7
)

const fullScale = math.MaxInt16

type segment struct {
	tone  bool
	units int
}

// plan lays out the tone and silence segments of a Morse string.
func plan(morse string) []segment {
	tokens := tokenize(morse)
	segs := make([]segment, 0, len(tokens)*4)

	for i, tok := range tokens {
		if tok == WordSeparator {
			segs = append(segs, segment{units: wordGapUnits})
			continue
		}

		for j := 0; j < len(tok); j++ {
			switch tok[j] {
			case '.':
				segs = append(segs, segment{tone: true, units: dotUnits})
			case '-':
				segs = append(segs, segment{tone: true, units: dashUnits})
			}
			if j != len(tok)-1 {
				segs = append(segs, segment{units: intraGapUnits})
			}
		}

		if i != len(tokens)-1 {
			segs = append(segs, segment{units: letterGapUnits})
		}
	}

	return segs
}

// Synthesize renders a Morse string into float samples in [-volume, volume].
func Synthesize(morse string, p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	segs := plan(morse)
	total := 0
	for _, s := range segs {
		total += p.samples(s.units)
	}

	buf := make([]float64, 0, total)
	step := 2 * math.Pi * p.Frequency / float64(p.SampleRate)
	var phase float64
	for _, s := range segs {
		n := p.samples(s.units)
		if !s.tone {
			buf = append(buf, make([]float64, n)...)
			continue
		}

		if !p.ContinuousPhase {
			phase = 0
		}
		for i := 0; i < n; i++ {
			buf = append(buf, p.Volume*math.Sin(phase+step*float64(i)))
		}
		phase = math.Mod(phase+step*float64(n), 2*math.Pi)
	}

	return buf, nil
}

// quantize scales samples so the loudest one hits full 16-bit scale.
// An all-silent buffer stays all zero.
func quantize(samples []float64) []int {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	out := make([]int, len(samples))
	if peak == 0 {
		return out
	}
	scale := fullScale / peak
	for i, s := range samples {
		out[i] = int(math.Round(s * scale))
	}
	return out
}

// WaveBytes renders morse as a mono 16-bit PCM WAV file.
func WaveBytes(morse string, p Params) ([]byte, error) {
	samples, err := Synthesize(morse, p)
	if err != nil {
		return nil, err
	}

	data, err := encodeWav(quantize(samples), p.SampleRate)
	if err != nil {
		return nil, errors.Wrap(err, "encode wav failed")
	}
	return data, nil
}

// Duration reports how long the rendered audio of morse lasts.
func Duration(morse string, p Params) (time.Duration, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	total := 0
	for _, s := range plan(morse) {
		total += p.samples(s.units)
	}
	return time.Duration(total) * time.Second / time.Duration(p.SampleRate), nil
}

// SaveWAV renders morse and writes it to filename, replacing any existing file.
// The file is written next to the target and renamed into place, so a failed
// save never leaves a truncated file behind.
func SaveWAV(morse, filename string, p Params) (err error) {
	data, err := WaveBytes(morse, p)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file failed")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrapf(err, "write %s failed", filename)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s failed", filename)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s failed", filename)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return errors.Wrapf(err, "rename to %s failed", filename)
	}
	return nil
}

// Result is the outcome of a background render.
type Result struct {
	WAV []byte
	Err error
}

// Render runs WaveBytes on its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func Render(morse string, p Params) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		data, err := WaveBytes(morse, p)
		ch <- Result{WAV: data, Err: err}
	}()
	return ch
}
