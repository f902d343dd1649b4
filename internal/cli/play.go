package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/drery/morse"
	"github.com/spf13/cobra"
)

type PlayParams struct {
	Text      []string `pos:"true" optional:"true" help:"Text to play. If none provided, reads stdin."`
	Morse     bool     `short:"m" help:"Input is already Morse code; each stdin line is one word." default:"false"`
	WPM       int      `short:"w" help:"Words per minute (0 = from config)." default:"0"`
	Frequency float64  `short:"f" help:"Tone frequency in Hz (0 = from config)." default:"0"`
	Volume    float64  `short:"v" help:"Volume in (0, 1] (0 = from config)." default:"0"`
	Config    string   `short:"c" optional:"true" help:"Path to a YAML config file."`
}

func PlayCmd() *cobra.Command {
	return boa.CmdT[PlayParams]{
		Use:         "play",
		Short:       "Play Morse code through the speaker",
		Long:        "Render Morse code and play it on the default audio device (requires CGO on Linux).",
		ParamEnrich: DefaultParamEnricher(),
		RunFunc: func(params *PlayParams, cmd *cobra.Command, args []string) {
			os.Exit(RunPlay(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunPlay(params *PlayParams, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, logger, ok := setup("play", params.Config, stderr)
	if !ok {
		return 1
	}
	if !audioAvailable {
		logger.Error("audio playback is not available in this build (requires CGO on Linux)")
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
	if _, err := fmt.Fprintln(stdout, code); err != nil {
		logger.Error("write failed", slogError(err))
		return 1
	}

	p := audioFlags{
		WPM:       params.WPM,
		Frequency: params.Frequency,
		Volume:    params.Volume,
	}.apply(cfg.Params())

	logger.Debug("rendering", slog.Int("wpm", p.WPM), slog.Float64("frequency", p.Frequency))
	res := <-morse.Render(code, p)
	if res.Err != nil {
		logger.Error("synthesis failed", slogError(res.Err))
		return 1
	}

	if err := playWav(res.WAV); err != nil {
		logger.Error("playback failed", slogError(err))
		return 1
	}
	return 0
}
