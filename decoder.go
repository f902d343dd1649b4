package morse

import (
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const (
	smoothingWindowMs     = 10
	thresholdRatio        = 0.5
	dotDurationMultiplier = 1.5
	wpmGuess              = DefaultWPM

	// run length boundaries, in units
	dashThreshold      = 2.0
	letterGapThreshold = 2.0
	wordGapThreshold   = 5.0

	kMeansIterations = 100
)

// Decoder recovers Morse code from a recording of keyed tones.
type Decoder struct {
	ad audioDecoder
}

// NewDecoder ...
func NewDecoder(r io.ReadSeeker, typ AudioType) (*Decoder, error) {
	gen, ok := audioDecoders[typ]
	if !ok {
		return nil, errors.Errorf("unsupported audio type: %s", typ)
	}

	ad, err := gen(r)
	if err != nil {
		return nil, err
	}

	return &Decoder{ad}, nil
}

// Parse reads the whole recording.
func (d Decoder) Parse() (*PCMBuffer, error) {
	return d.ParsePart(0, 0)
}

// ParsePart reads the recording between start and end seconds. An end of
// zero or less reads to the end of the stream.
func (d Decoder) ParsePart(start, end float64) (*PCMBuffer, error) {
	samples, err := d.ad.PCMBuffer(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parse audio pcm buffer failed")
	}

	return &PCMBuffer{
		samples:    samples,
		sampleRate: d.ad.SampleRate(),
	}, nil
}

// PCMBuffer holds mono samples and the on/off structure detected in them.
type PCMBuffer struct {
	samples    []int
	sampleRate int
	once       sync.Once
	onSamples  []int
	offSamples []int
}

// DotChars returns one "." or "-" per detected tone.
func (b *PCMBuffer) DotChars() ([]string, error) {
	b.calculate()
	if len(b.onSamples) == 0 {
		return nil, nil
	}

	unit, err := estimateUnit(b.onSamples, b.offSamples, b.sampleRate)
	if err != nil {
		return nil, err
	}

	return detectDashesDots(b.onSamples, unit), nil
}

// Morse returns the detected code as space separated tokens with "/"
// between words.
func (b *PCMBuffer) Morse() (string, error) {
	b.calculate()
	if len(b.onSamples) == 0 {
		return "", nil
	}

	unit, err := estimateUnit(b.onSamples, b.offSamples, b.sampleRate)
	if err != nil {
		return "", err
	}

	dotChars := detectDashesDots(b.onSamples, unit)
	return mergeToMorse(dotChars, classifyGaps(b.offSamples, unit)), nil
}

// Text decodes the detected code.
func (b *PCMBuffer) Text(opts ...CodecOption) (string, error) {
	m, err := b.Morse()
	if err != nil {
		return "", err
	}
	return Decode(m, opts...), nil
}

func (b *PCMBuffer) calculate() {
	b.once.Do(func() {
		envelope := smoothedPower(b.samples, b.sampleRate)
		binarySignal := squaredSignal(envelope)
		b.onSamples, b.offSamples = calculateDurations(binarySignal)
	})
}

// smoothedPower convolves the squared signal with a normalized Hann window.
func smoothedPower(samples []int, sampleRate int) []float64 {
	windowSize := sampleRate * smoothingWindowMs / 1000
	if windowSize < 2 {
		windowSize = 2
	}

	window := make([]float64, windowSize)
	var sum float64
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(windowSize-1))
		sum += window[i]
	}
	for i := range window {
		window[i] /= sum
	}

	squared := make([]float64, len(samples))
	for i, s := range samples {
		squared[i] = float64(s) * float64(s)
	}

	return convolve(squared, window)
}

// convolve computes the "valid" part of the convolution of a with v.
func convolve(a, v []float64) []float64 {
	n := len(a)
	m := len(v)
	if n < m {
		return []float64{}
	}

	result := make([]float64, n-m+1)
	for i := range result {
		var sum float64
		for j := 0; j < m; j++ {
			sum += a[i+j] * v[j]
		}
		result[i] = sum
	}

	return result
}

// squaredSignal thresholds the envelope at half its peak.
func squaredSignal(envelope []float64) []int {
	threshold := thresholdRatio * slicesMax(envelope)

	binary := make([]int, len(envelope))
	for i, v := range envelope {
		if v > threshold {
			binary[i] = 1
		}
	}
	return binary
}

// findEdges returns the indexes where the signal switches on and off.
func findEdges(binary []int) (rising []int, falling []int) {
	for i := 1; i < len(binary); i++ {
		switch {
		case binary[i-1] == 0 && binary[i] == 1:
			rising = append(rising, i)
		case binary[i-1] == 1 && binary[i] == 0:
			falling = append(falling, i)
		}
	}
	return
}

// calculateDurations returns the length of every on run and of the off runs
// between them. Leading and trailing silence is dropped.
func calculateDurations(binary []int) (onSamples, offSamples []int) {
	if len(binary) == 0 {
		return
	}

	rising, falling := findEdges(binary)
	if binary[0] == 1 {
		rising = append([]int{0}, rising...)
	}
	if len(rising) > len(falling) {
		falling = append(falling, len(binary))
	}

	for i := range rising {
		onSamples = append(onSamples, falling[i]-rising[i])
		if i+1 < len(rising) {
			offSamples = append(offSamples, rising[i+1]-falling[i])
		}
	}
	return
}

// kMeans clusters one-dimensional data and returns the centers in ascending
// order.
func kMeans(data []float64, k int) []float64 {
	if len(data) == 0 || k <= 0 {
		return nil
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	centers := make([]float64, k)
	step := len(data) / k
	for i := range centers {
		centers[i] = sorted[min(i*step, len(data)-1)]
	}

	sums := make([]float64, k)
	counts := make([]int, k)
	for iter := 0; iter < kMeansIterations; iter++ {
		clear(sums)
		clear(counts)
		for _, d := range data {
			nearest := 0
			for c := 1; c < k; c++ {
				if math.Abs(d-centers[c]) < math.Abs(d-centers[nearest]) {
					nearest = c
				}
			}
			sums[nearest] += d
			counts[nearest]++
		}

		changed := false
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			next := sums[c] / float64(counts[c])
			if math.Abs(next-centers[c]) > 1e-6 {
				changed = true
			}
			centers[c] = next
		}
		if !changed {
			break
		}
	}

	sort.Float64s(centers)
	return centers
}

// shortest gap over tone length for every way a single tone cluster can be
// read; dots come first so they win a tie. A "/" token follows a letter gap,
// so words are 7 units apart on air but 10 units apart in rendered audio.
var gapReadings = []struct {
	ratio     float64
	toneUnits float64
}{
	{ratio: float64(intraGapUnits) / dotUnits, toneUnits: dotUnits},
	{ratio: float64(letterGapUnits) / dotUnits, toneUnits: dotUnits},
	{ratio: float64(wordGapUnits) / dotUnits, toneUnits: dotUnits},
	{ratio: float64(letterGapUnits+wordGapUnits) / dotUnits, toneUnits: dotUnits},
	{ratio: float64(intraGapUnits) / dashUnits, toneUnits: dashUnits},
	{ratio: float64(wordGapUnits) / dashUnits, toneUnits: dashUnits},
	{ratio: float64(letterGapUnits+wordGapUnits) / dashUnits, toneUnits: dashUnits},
}

// estimateUnit returns the length of one dot in samples. With both dots and
// dashes present the shorter cluster is the dot. A single cluster is read
// from the shortest gap when there is one, otherwise against the dot length
// expected at the default speed.
func estimateUnit(onSamples, offSamples []int, sampleRate int) (float64, error) {
	data := make([]float64, len(onSamples))
	var total float64
	for i, s := range onSamples {
		data[i] = float64(s)
		total += data[i]
	}

	centers := kMeans(data, min(2, len(data)))
	if len(centers) == 0 {
		return 0, errors.New("clustering tone lengths failed")
	}
	if len(centers) == 2 && centers[0] > 0 && centers[1]/centers[0] >= dashThreshold {
		return centers[0], nil
	}

	mean := total / float64(len(data))
	if mean <= 0 {
		return 0, errors.New("no measurable tones")
	}
	if len(offSamples) > 0 {
		return mean / toneUnitsFromGaps(mean, offSamples), nil
	}

	expectedDot := float64(sampleRate) * parisUnitMs / 1000 / wpmGuess
	if mean < expectedDot*dotDurationMultiplier {
		return mean, nil
	}
	return mean / dashUnits, nil
}

// toneUnitsFromGaps picks the reading whose gap ratio is nearest, on a log
// scale, to the shortest gap measured against the tone length.
func toneUnitsFromGaps(tone float64, offSamples []int) float64 {
	shortest := offSamples[0]
	for _, s := range offSamples[1:] {
		shortest = min(shortest, s)
	}
	ratio := math.Log(float64(shortest) / tone)

	best := gapReadings[0]
	for _, r := range gapReadings[1:] {
		if math.Abs(ratio-math.Log(r.ratio)) < math.Abs(ratio-math.Log(best.ratio)) {
			best = r
		}
	}
	return best.toneUnits
}

func detectDashesDots(onSamples []int, unit float64) []string {
	result := make([]string, len(onSamples))
	for i, s := range onSamples {
		if float64(s) < dashThreshold*unit {
			result[i] = "."
		} else {
			result[i] = "-"
		}
	}
	return result
}

type gapKind int

const (
	intraGap gapKind = iota
	letterGap
	wordGap
)

func classifyGaps(offSamples []int, unit float64) []gapKind {
	gaps := make([]gapKind, len(offSamples))
	for i, s := range offSamples {
		switch u := float64(s) / unit; {
		case u < letterGapThreshold:
			gaps[i] = intraGap
		case u < wordGapThreshold:
			gaps[i] = letterGap
		default:
			gaps[i] = wordGap
		}
	}
	return gaps
}

// mergeToMorse groups dots and dashes into tokens using the gap after each
// tone.
func mergeToMorse(dotChars []string, gaps []gapKind) string {
	var tokens []string
	var current strings.Builder
	for i, c := range dotChars {
		current.WriteString(c)
		if i >= len(gaps) {
			continue
		}

		switch gaps[i] {
		case letterGap:
			tokens = append(tokens, current.String())
			current.Reset()
		case wordGap:
			tokens = append(tokens, current.String(), WordSeparator)
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return strings.Join(tokens, " ")
}

func slicesMax(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	maxVal := s[0]
	for _, v := range s[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}
