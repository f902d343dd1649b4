package cli

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/drery/morse"
	"github.com/drery/morse/internal/config"
)

func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// setup loads configuration and builds the logger for one command run.
func setup(component, configPath string, stderr io.Writer) (config.Config, *slog.Logger, bool) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		logger.Error("failed to load config", slogError(err))
		return cfg, logger, false
	}
	return cfg, newLogger(cfg.Log, stderr).With(slog.String("component", component)), true
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// eachInput calls fn once with the joined args, or once per stdin line when
// there are no args.
func eachInput(args []string, stdin io.Reader, fn func(string) error) error {
	if len(args) > 0 {
		return fn(strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// stdin line separators for plain text and for Morse input, where every
// line is a word of its own
const (
	textLineSep  = " "
	morseLineSep = " " + morse.WordSeparator + " "
)

func lineSep(isMorse bool) string {
	if isMorse {
		return morseLineSep
	}
	return textLineSep
}

// readAll joins the args with spaces, or the non-blank lines of stdin with
// sep, into a single input.
func readAll(args []string, stdin io.Reader, sep string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, sep), nil
}

type audioFlags struct {
	WPM        int
	Frequency  float64
	SampleRate int
	Volume     float64
}

// apply overrides config params with every non-zero flag.
func (f audioFlags) apply(p morse.Params) morse.Params {
	if f.WPM != 0 {
		p.WPM = f.WPM
	}
	if f.Frequency != 0 {
		p.Frequency = f.Frequency
	}
	if f.SampleRate != 0 {
		p.SampleRate = f.SampleRate
	}
	if f.Volume != 0 {
		p.Volume = f.Volume
	}
	return p
}

func unknownOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
