package morse

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// one unit at 20 WPM and 44.1 kHz
const unitSamples = 2646

func decodeWav(t *testing.T, data []byte) (*wav.Decoder, []int) {
	t.Helper()

	d := wav.NewDecoder(bytes.NewReader(data))
	require.True(t, d.IsValidFile())
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)
	return d, buf.Data
}

func TestSynthesizeSampleCounts(t *testing.T) {
	tests := []struct {
		morse string
		units int
	}{
		{morse: "", units: 0},
		{morse: ".", units: 1},
		{morse: "-", units: 3},
		{morse: "...", units: 5},
		{morse: "... ---", units: 5 + 3 + 11},
		{morse: "/", units: 7},
		{morse: ". / .", units: 1 + 3 + 7 + 1},
		{morse: "[?]", units: 2},
	}
	for _, tt := range tests {
		t.Run(tt.morse, func(t *testing.T) {
			samples, err := Synthesize(tt.morse, DefaultParams())
			require.NoError(t, err)
			require.Len(t, samples, tt.units*unitSamples)

			d, err := Duration(tt.morse, DefaultParams())
			require.NoError(t, err)
			require.Equal(t, time.Duration(tt.units)*60*time.Millisecond, d)
		})
	}
}

func TestSynthesizeToneShape(t *testing.T) {
	p := DefaultParams()
	samples, err := Synthesize(". .", p)
	require.NoError(t, err)

	step := 2 * math.Pi * p.Frequency / float64(p.SampleRate)
	for i := 0; i < unitSamples; i++ {
		require.InDelta(t, p.Volume*math.Sin(step*float64(i)), samples[i], 1e-12)
	}
	for i := unitSamples; i < 4*unitSamples; i++ {
		require.Zero(t, samples[i])
	}
	// phase restarts for the second tone
	require.Equal(t, samples[:unitSamples], samples[4*unitSamples:])
}

func TestSynthesizeContinuousPhase(t *testing.T) {
	p := DefaultParams()
	p.Frequency = 710
	restart, err := Synthesize(". .", p)
	require.NoError(t, err)

	p.ContinuousPhase = true
	continuous, err := Synthesize(". .", p)
	require.NoError(t, err)

	require.Len(t, continuous, len(restart))
	require.Equal(t, restart[:unitSamples], continuous[:unitSamples])
	require.NotEqual(t, restart[4*unitSamples:], continuous[4*unitSamples:])
}

func TestWaveBytesContainer(t *testing.T) {
	p := DefaultParams()
	p.SampleRate = 22050

	data, err := WaveBytes("... --- ...", p)
	require.NoError(t, err)

	d, pcm := decodeWav(t, data)
	require.EqualValues(t, 22050, d.SampleRate)
	require.EqualValues(t, 1, d.NumChans)
	require.EqualValues(t, 16, d.BitDepth)
	require.EqualValues(t, wavFormatPCM, d.WavAudioFormat)
	require.Len(t, data, wavHeaderSize+2*len(pcm))

	var peak int
	for _, s := range pcm {
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	require.Equal(t, math.MaxInt16, peak)
}

func TestWaveBytesEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   "} {
		data, err := WaveBytes(in, DefaultParams())
		require.NoError(t, err)
		require.Len(t, data, wavHeaderSize)

		d := wav.NewDecoder(bytes.NewReader(data))
		d.ReadInfo()
		require.NoError(t, d.Err())
		require.EqualValues(t, DefaultSampleRate, d.SampleRate)
		require.EqualValues(t, 1, d.NumChans)
		require.EqualValues(t, 16, d.BitDepth)
	}
}

func TestWaveBytesAllSilence(t *testing.T) {
	data, err := WaveBytes("/ /", DefaultParams())
	require.NoError(t, err)

	_, pcm := decodeWav(t, data)
	require.Len(t, pcm, 14*unitSamples)
	for _, s := range pcm {
		require.Zero(t, s)
	}
}

func TestWaveBytesDeterministicAndMonotonic(t *testing.T) {
	p := DefaultParams()

	a, err := WaveBytes("... --- ...", p)
	require.NoError(t, err)
	b, err := WaveBytes("... --- ...", p)
	require.NoError(t, err)
	require.Equal(t, a, b)

	prev := 0
	for _, m := range []string{".", ". .", ". . -", ". . - /", ". . - / .--."} {
		data, err := WaveBytes(m, p)
		require.NoError(t, err)
		require.Greater(t, len(data), prev, "length of %q", m)
		prev = len(data)
	}

	prev = math.MaxInt
	for _, wpm := range []int{5, 10, 20, 30, 40} {
		p.WPM = wpm
		data, err := WaveBytes("... --- ...", p)
		require.NoError(t, err)
		require.Less(t, len(data), prev, "length at %d wpm", wpm)
		prev = len(data)
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.Equal(t, 60*time.Millisecond, DefaultParams().Unit())

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{name: "zero wpm", mutate: func(p *Params) { p.WPM = 0 }},
		{name: "negative wpm", mutate: func(p *Params) { p.WPM = -3 }},
		{name: "zero sample rate", mutate: func(p *Params) { p.SampleRate = 0 }},
		{name: "negative sample rate", mutate: func(p *Params) { p.SampleRate = -44100 }},
		{name: "zero frequency", mutate: func(p *Params) { p.Frequency = 0 }},
		{name: "nan frequency", mutate: func(p *Params) { p.Frequency = math.NaN() }},
		{name: "above nyquist", mutate: func(p *Params) { p.Frequency = 30000 }},
		{name: "zero volume", mutate: func(p *Params) { p.Volume = 0 }},
		{name: "loud volume", mutate: func(p *Params) { p.Volume = 1.5 }},
		{name: "nan volume", mutate: func(p *Params) { p.Volume = math.NaN() }},
		{name: "dot under one sample", mutate: func(p *Params) { p.WPM = 100_000_000 }},
		{name: "dot rounds to zero", mutate: func(p *Params) { p.SampleRate, p.WPM = 8000, 20000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			require.True(t, errors.Is(p.Validate(), ErrInvalidParams))

			_, err := WaveBytes("...", p)
			require.True(t, errors.Is(err, ErrInvalidParams))

			_, err = Duration("...", p)
			require.True(t, errors.Is(err, ErrInvalidParams))
		})
	}
}

func TestParamsShortestDot(t *testing.T) {
	// 0.0625ms at 8 kHz is half a sample, which rounds up
	p := DefaultParams()
	p.SampleRate = 8000
	p.WPM = 19200
	require.NoError(t, p.Validate())

	prev := 0
	for _, m := range []string{".", "..", "...", "... -"} {
		data, err := WaveBytes(m, p)
		require.NoError(t, err)
		require.Greater(t, len(data), prev, "length of %q", m)
		prev = len(data)
	}
}

func TestSaveWAV(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sos.wav")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	require.NoError(t, SaveWAV("... --- ...", target, DefaultParams()))

	want, err := WaveBytes("... --- ...", DefaultParams())
	require.NoError(t, err)
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, want, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveWAVFailures(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "keep.wav")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	bad := DefaultParams()
	bad.WPM = 0
	err := SaveWAV("...", target, bad)
	require.True(t, errors.Is(err, ErrInvalidParams))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "old", string(got))

	err = SaveWAV("...", filepath.Join(dir, "missing", "out.wav"), DefaultParams())
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "missing"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRender(t *testing.T) {
	want, err := WaveBytes(".-", DefaultParams())
	require.NoError(t, err)

	res := <-Render(".-", DefaultParams())
	require.NoError(t, res.Err)
	require.Equal(t, want, res.WAV)

	bad := DefaultParams()
	bad.Volume = 2
	ch := Render(".-", bad)
	res = <-ch
	require.True(t, errors.Is(res.Err, ErrInvalidParams))
	require.Nil(t, res.WAV)

	_, open := <-ch
	require.False(t, open)
}

func TestQuantizeSilence(t *testing.T) {
	out := quantize(make([]float64, 5))
	require.Equal(t, []int{0, 0, 0, 0, 0}, out)
	require.Empty(t, quantize(nil))
}
