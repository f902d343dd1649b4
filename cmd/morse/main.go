package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/drery/morse/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "morse",
		Short:   "Morse code encoder, decoder and tone generator",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			cli.EncodeCmd(),
			cli.DecodeCmd(),
			cli.WavCmd(),
			cli.ListenCmd(),
			cli.PlayCmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-(no build info)"
	}

	if bi.Main.Version == "" {
		return "unknown-(no version)"
	}
	return bi.Main.Version
}
