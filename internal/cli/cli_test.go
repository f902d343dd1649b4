package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drery/morse"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRunEncode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunEncode(&EncodeParams{Text: []string{"SOS", "now"}}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "... --- ... / -. --- .--\n", stdout.String())
}

func TestRunEncodeStdinLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunEncode(&EncodeParams{Unknown: "*"}, strings.NewReader("e\nt#\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, ".\n- *\n", stdout.String())
}

func TestRunEncodeConfigPlaceholder(t *testing.T) {
	t.Setenv("MORSE_UNKNOWN_ENCODE", "<?>")

	var stdout, stderr bytes.Buffer
	code := RunEncode(&EncodeParams{Text: []string{"a~"}}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, ".- <?>\n", stdout.String())
}

func TestRunDecode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunDecode(&DecodeParams{}, strings.NewReader("... --- ...\n.... .. / - .... . .-. .\n........\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "sos\nhi there\n?\n", stdout.String())
}

func TestRunDecodeBadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunDecode(&DecodeParams{Config: filepath.Join(t.TempDir(), "missing.yaml")}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Empty(t, stdout.String())
	require.Contains(t, stderr.String(), "failed to load config")
}

func TestRunWavAndListen(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sos.wav")

	var stdout, stderr bytes.Buffer
	code := RunWav(&WavParams{
		Text:       []string{"sos", "73"},
		Output:     out,
		SampleRate: 8000,
	}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	want, err := morse.WaveBytes(morse.Encode("sos 73"), morse.Params{
		WPM:        morse.DefaultWPM,
		Frequency:  morse.DefaultFrequency,
		SampleRate: 8000,
		Volume:     morse.DefaultVolume,
	})
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, want, got)

	stdout.Reset()
	stderr.Reset()
	code = RunListen(&ListenParams{File: out, ShowMorse: true}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "... --- ... / --... ...--\nsos 73\n", stdout.String())
}

func TestRunWavStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunWav(&WavParams{
		Output:     "-",
		Morse:      true,
		WPM:        25,
		SampleRate: 8000,
	}, strings.NewReader(".-\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	p := morse.DefaultParams()
	p.WPM = 25
	p.SampleRate = 8000
	want, err := morse.WaveBytes(".-", p)
	require.NoError(t, err)
	require.Equal(t, want, stdout.Bytes())
}

func TestRunWavMorseLinesAreWords(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunWav(&WavParams{
		Output:     "-",
		Morse:      true,
		SampleRate: 8000,
	}, strings.NewReader("...\n-\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	p := morse.DefaultParams()
	p.SampleRate = 8000
	want, err := morse.WaveBytes("... / -", p)
	require.NoError(t, err)
	require.Equal(t, want, stdout.Bytes())
}

func TestRunWavInvalidParams(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.wav")

	var stdout, stderr bytes.Buffer
	code := RunWav(&WavParams{Text: []string{"e"}, Output: out, Volume: 4}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "invalid waveform parameters")

	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestRunListenErrors(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := RunListen(&ListenParams{File: filepath.Join(dir, "tones.ogg")}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "unsupported audio type")

	stderr.Reset()
	code = RunListen(&ListenParams{File: filepath.Join(dir, "missing.wav")}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "open failed")

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not audio"), 0o644))
	stderr.Reset()
	code = RunListen(&ListenParams{File: garbage}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "invalid wav file")
	require.Empty(t, stdout.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestRunListenWriteError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "e.wav")
	p := morse.DefaultParams()
	p.SampleRate = 8000
	require.NoError(t, morse.SaveWAV(".", out, p))

	for _, show := range []bool{false, true} {
		var stderr bytes.Buffer
		code := RunListen(&ListenParams{File: out, ShowMorse: show}, failingWriter{}, &stderr)
		require.Equal(t, 1, code)
		require.Contains(t, stderr.String(), "stdout closed")
	}
}

func TestAudioFlagsApply(t *testing.T) {
	base := morse.DefaultParams()
	require.Equal(t, base, audioFlags{}.apply(base))

	got := audioFlags{WPM: 12, Volume: 0.9}.apply(base)
	require.Equal(t, 12, got.WPM)
	require.Equal(t, 0.9, got.Volume)
	require.Equal(t, base.Frequency, got.Frequency)
	require.Equal(t, base.SampleRate, got.SampleRate)
}

func TestReadAll(t *testing.T) {
	got, err := readAll(nil, strings.NewReader("hello\r\nworld\n"), textLineSep)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)

	got, err = readAll([]string{"a", "b"}, strings.NewReader("ignored"), textLineSep)
	require.NoError(t, err)
	require.Equal(t, "a b", got)

	got, err = readAll(nil, strings.NewReader("... ---\r\n\n  .-\n"), morseLineSep)
	require.NoError(t, err)
	require.Equal(t, "... --- / .-", got)

	got, err = readAll([]string{"...", "---"}, strings.NewReader(""), morseLineSep)
	require.NoError(t, err)
	require.Equal(t, "... ---", got)
}
