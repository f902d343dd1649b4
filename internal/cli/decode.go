package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/drery/morse"
	"github.com/spf13/cobra"
)

type DecodeParams struct {
	Morse   []string `pos:"true" optional:"true" help:"Morse code to decode, '/' between words. If none provided, reads lines from stdin."`
	Unknown string   `short:"u" optional:"true" help:"Placeholder for unrecognized tokens (default from config)."`
	Config  string   `short:"c" optional:"true" help:"Path to a YAML config file."`
}

func DecodeCmd() *cobra.Command {
	return boa.CmdT[DecodeParams]{
		Use:         "decode",
		Short:       "Decode Morse code to text",
		ParamEnrich: DefaultParamEnricher(),
		RunFunc: func(params *DecodeParams, cmd *cobra.Command, args []string) {
			os.Exit(RunDecode(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunDecode(params *DecodeParams, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, logger, ok := setup("decode", params.Config, stderr)
	if !ok {
		return 1
	}
	unknown := unknownOr(params.Unknown, cfg.Codec.UnknownDecode)

	err := eachInput(params.Morse, stdin, func(code string) error {
		_, err := fmt.Fprintln(stdout, morse.Decode(code, morse.WithUnknownToken(unknown)))
		return err
	})
	if err != nil {
		logger.Error("decode failed", slogError(err))
		return 1
	}
	return 0
}
