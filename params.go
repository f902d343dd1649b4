package morse

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultWPM        = 20
	DefaultFrequency  = 700
	DefaultSampleRate = 44100
	DefaultVolume     = 0.5

	// one dot at 1 WPM, from the 50-unit "PARIS" reference word
	parisUnitMs = 1200.0
)

// ErrInvalidParams is returned for waveform parameters that cannot be rendered.
var ErrInvalidParams = errors.New("invalid waveform parameters")

// Params controls speed, pitch and loudness of synthesized Morse audio.
type Params struct {
	WPM        int
	Frequency  float64
	SampleRate int
	Volume     float64

	// ContinuousPhase keeps the oscillator phase running across tone
	// segments instead of restarting every tone at zero.
	ContinuousPhase bool
}

// DefaultParams returns 20 WPM, 700 Hz, 44.1 kHz at half volume.
func DefaultParams() Params {
	return Params{
		WPM:        DefaultWPM,
		Frequency:  DefaultFrequency,
		SampleRate: DefaultSampleRate,
		Volume:     DefaultVolume,
	}
}

// Validate reports parameters that cannot be rendered, wrapping ErrInvalidParams.
func (p Params) Validate() error {
	switch {
	case p.WPM <= 0:
		return errors.Wrapf(ErrInvalidParams, "wpm must be positive, got %d", p.WPM)
	case p.SampleRate <= 0:
		return errors.Wrapf(ErrInvalidParams, "sample rate must be positive, got %d", p.SampleRate)
	case p.samples(dotUnits) < 1:
		return errors.Wrapf(ErrInvalidParams, "a dot at %d wpm is shorter than one sample at %d Hz", p.WPM, p.SampleRate)
	case math.IsNaN(p.Frequency) || p.Frequency <= 0:
		return errors.Wrapf(ErrInvalidParams, "frequency must be positive, got %v", p.Frequency)
	case p.Frequency >= float64(p.SampleRate)/2:
		return errors.Wrapf(ErrInvalidParams, "frequency %v Hz is at or above the Nyquist limit of %d Hz", p.Frequency, p.SampleRate/2)
	case math.IsNaN(p.Volume) || p.Volume <= 0 || p.Volume > 1:
		return errors.Wrapf(ErrInvalidParams, "volume must be in (0, 1], got %v", p.Volume)
	}
	return nil
}

// UnitMs is the length of one dot in milliseconds.
func (p Params) UnitMs() float64 {
	return parisUnitMs / float64(p.WPM)
}

// Unit is UnitMs as a time.Duration.
func (p Params) Unit() time.Duration {
	return time.Duration(p.UnitMs() * float64(time.Millisecond))
}

// samples converts a multiple of the unit into a sample count.
func (p Params) samples(units int) int {
	ms := float64(units) * p.UnitMs()
	return int(math.Round(float64(p.SampleRate) * ms / 1000))
}
