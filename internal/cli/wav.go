package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/drery/morse"
	"github.com/spf13/cobra"
)

type WavParams struct {
	Text       []string `pos:"true" optional:"true" help:"Text to render. If none provided, reads stdin."`
	Output     string   `short:"o" optional:"true" help:"Output WAV file, - for stdout." default:"morse.wav"`
	Morse      bool     `short:"m" help:"Input is already Morse code; each stdin line is one word." default:"false"`
	WPM        int      `short:"w" help:"Words per minute (0 = from config)." default:"0"`
	Frequency  float64  `short:"f" help:"Tone frequency in Hz (0 = from config)." default:"0"`
	SampleRate int      `short:"r" help:"Sample rate in Hz (0 = from config)." default:"0"`
	Volume     float64  `short:"v" help:"Volume in (0, 1] (0 = from config)." default:"0"`
	Config     string   `short:"c" optional:"true" help:"Path to a YAML config file."`
}

func WavCmd() *cobra.Command {
	return boa.CmdT[WavParams]{
		Use:         "wav",
		Short:       "Render Morse code as a WAV file",
		Long:        "Synthesize keyed sine tones with standard Morse timing and write them as a 16-bit mono PCM WAV file.",
		ParamEnrich: DefaultParamEnricher(),
		RunFunc: func(params *WavParams, cmd *cobra.Command, args []string) {
			os.Exit(RunWav(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunWav(params *WavParams, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, logger, ok := setup("wav", params.Config, stderr)
	if !ok {
		return 1
	}

	input, err := readAll(params.Text, stdin, lineSep(params.Morse))
	if err != nil {
		logger.Error("failed to read input", slogError(err))
		return 1
	}
	code := input
	if !params.Morse {
		code = morse.Encode(input, morse.WithUnknownToken(cfg.Codec.UnknownEncode))
	}

	p := audioFlags{
		WPM:        params.WPM,
		Frequency:  params.Frequency,
		SampleRate: params.SampleRate,
		Volume:     params.Volume,
	}.apply(cfg.Params())

	length, err := morse.Duration(code, p)
	if err != nil {
		logger.Error("synthesis failed", slogError(err))
		return 1
	}

	output := params.Output
	if output == "" {
		output = "morse.wav"
	}

	if output == "-" {
		data, err := morse.WaveBytes(code, p)
		if err != nil {
			logger.Error("synthesis failed", slogError(err))
			return 1
		}
		if _, err := stdout.Write(data); err != nil {
			logger.Error("write failed", slogError(err))
			return 1
		}
		return 0
	}

	if err := morse.SaveWAV(code, output, p); err != nil {
		logger.Error("save failed", slog.String("file", output), slogError(err))
		return 1
	}

	logger.Info("wrote wav",
		slog.String("file", output),
		slog.String("morse", code),
		slog.Int("wpm", p.WPM),
		slog.Duration("unit", p.Unit()),
		slog.Duration("duration", length),
	)
	return 0
}
