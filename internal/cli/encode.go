package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/drery/morse"
	"github.com/spf13/cobra"
)

type EncodeParams struct {
	Text    []string `pos:"true" optional:"true" help:"Text to encode. If none provided, reads lines from stdin."`
	Unknown string   `short:"u" optional:"true" help:"Placeholder for characters without a Morse pattern (default from config)."`
	Config  string   `short:"c" optional:"true" help:"Path to a YAML config file."`
}

func EncodeCmd() *cobra.Command {
	return boa.CmdT[EncodeParams]{
		Use:         "encode",
		Short:       "Encode text to Morse code",
		ParamEnrich: DefaultParamEnricher(),
		RunFunc: func(params *EncodeParams, cmd *cobra.Command, args []string) {
			os.Exit(RunEncode(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunEncode(params *EncodeParams, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, logger, ok := setup("encode", params.Config, stderr)
	if !ok {
		return 1
	}
	unknown := unknownOr(params.Unknown, cfg.Codec.UnknownEncode)

	err := eachInput(params.Text, stdin, func(text string) error {
		_, err := fmt.Fprintln(stdout, morse.Encode(text, morse.WithUnknownToken(unknown)))
		return err
	})
	if err != nil {
		logger.Error("encode failed", slogError(err))
		return 1
	}
	return 0
}
