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

type ListenParams struct {
	File      string  `pos:"true" help:"WAV or MP3 recording of Morse tones."`
	Type      string  `short:"t" optional:"true" help:"Audio type, wav or mp3 (default from file extension)."`
	Start     float64 `short:"s" help:"Start offset in seconds." default:"0"`
	End       float64 `short:"e" help:"End offset in seconds, 0 reads to the end." default:"0"`
	ShowMorse bool    `short:"m" help:"Print the detected Morse code before the text." default:"false"`
	Unknown   string  `short:"u" optional:"true" help:"Placeholder for unrecognized tokens (default from config)."`
	Config    string  `short:"c" optional:"true" help:"Path to a YAML config file."`
}

func ListenCmd() *cobra.Command {
	return boa.CmdT[ListenParams]{
		Use:         "listen",
		Short:       "Decode Morse code from a WAV or MP3 recording",
		ParamEnrich: DefaultParamEnricher(),
		RunFunc: func(params *ListenParams, cmd *cobra.Command, args []string) {
			os.Exit(RunListen(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunListen(params *ListenParams, stdout, stderr io.Writer) int {
	cfg, logger, ok := setup("listen", params.Config, stderr)
	if !ok {
		return 1
	}
	logger = logger.With(slog.String("file", params.File))

	typ := morse.AudioType(params.Type)
	if params.Type == "" {
		var err error
		if typ, err = morse.AudioTypeFromPath(params.File); err != nil {
			logger.Error("cannot determine audio type", slogError(err))
			return 1
		}
	}

	f, err := os.Open(params.File)
	if err != nil {
		logger.Error("open failed", slogError(err))
		return 1
	}
	defer f.Close()

	decoder, err := morse.NewDecoder(f, typ)
	if err != nil {
		logger.Error("unreadable recording", slogError(err))
		return 1
	}
	buf, err := decoder.ParsePart(params.Start, params.End)
	if err != nil {
		logger.Error("reading samples failed", slogError(err))
		return 1
	}

	code, err := buf.Morse()
	if err != nil {
		logger.Error("detecting tones failed", slogError(err))
		return 1
	}
	logger.Debug("detected morse", slog.String("morse", code))

	if params.ShowMorse {
		if _, err := fmt.Fprintln(stdout, code); err != nil {
			logger.Error("write failed", slogError(err))
			return 1
		}
	}
	unknown := unknownOr(params.Unknown, cfg.Codec.UnknownDecode)
	if _, err := fmt.Fprintln(stdout, morse.Decode(code, morse.WithUnknownToken(unknown))); err != nil {
		logger.Error("write failed", slogError(err))
		return 1
	}
	return 0
}
