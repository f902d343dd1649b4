package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/drery/morse"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type AudioConfig struct {
	WPM             int     `yaml:"wpm"`
	Frequency       float64 `yaml:"frequency_hz"`
	SampleRate      int     `yaml:"sample_rate"`
	Volume          float64 `yaml:"volume"`
	ContinuousPhase bool    `yaml:"continuous_phase"`
}

type CodecConfig struct {
	UnknownEncode string `yaml:"unknown_encode"`
	UnknownDecode string `yaml:"unknown_decode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

type Config struct {
	Audio AudioConfig `yaml:"audio"`
	Codec CodecConfig `yaml:"codec"`
	Log   LogConfig   `yaml:"log"`
}

func Default() Config {
	return Config{
		Audio: AudioConfig{
			WPM:        morse.DefaultWPM,
			Frequency:  morse.DefaultFrequency,
			SampleRate: morse.DefaultSampleRate,
			Volume:     morse.DefaultVolume,
		},
		Codec: CodecConfig{
			UnknownEncode: morse.DefaultEncodeUnknown,
			UnknownDecode: morse.DefaultDecodeUnknown,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load starts from Default, applies the YAML file at path (if any) and then
// MORSE_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, errors.Wrap(err, "config file not found")
			}
			return cfg, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(err, "failed to parse config file")
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Params converts the audio section into synthesis parameters.
func (c Config) Params() morse.Params {
	return morse.Params{
		WPM:             c.Audio.WPM,
		Frequency:       c.Audio.Frequency,
		SampleRate:      c.Audio.SampleRate,
		Volume:          c.Audio.Volume,
		ContinuousPhase: c.Audio.ContinuousPhase,
	}
}

func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(err, "audio")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level must be one of debug|info|warn|error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("log.format must be one of text|json, got %q", c.Log.Format)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	overrides := []func() error{
		func() error { return overrideInt(&cfg.Audio.WPM, "MORSE_WPM") },
		func() error { return overrideFloat(&cfg.Audio.Frequency, "MORSE_FREQUENCY") },
		func() error { return overrideInt(&cfg.Audio.SampleRate, "MORSE_SAMPLE_RATE") },
		func() error { return overrideFloat(&cfg.Audio.Volume, "MORSE_VOLUME") },
		func() error { return overrideBool(&cfg.Audio.ContinuousPhase, "MORSE_CONTINUOUS_PHASE") },
		func() error { return overrideString(&cfg.Codec.UnknownEncode, "MORSE_UNKNOWN_ENCODE") },
		func() error { return overrideString(&cfg.Codec.UnknownDecode, "MORSE_UNKNOWN_DECODE") },
		func() error { return overrideString(&cfg.Log.Level, "MORSE_LOG_LEVEL") },
		func() error { return overrideString(&cfg.Log.Format, "MORSE_LOG_FORMAT") },
	}
	for _, o := range overrides {
		if err := o(); err != nil {
			return err
		}
	}
	return nil
}

func overrideString(target *string, envKey string) error {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
	return nil
}

func overrideInt(target *int, envKey string) error {
	value, ok := os.LookupEnv(envKey)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return errors.Wrapf(err, "invalid %s", envKey)
	}
	*target = parsed
	return nil
}

func overrideFloat(target *float64, envKey string) error {
	value, ok := os.LookupEnv(envKey)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", envKey)
	}
	*target = parsed
	return nil
}

func overrideBool(target *bool, envKey string) error {
	value, ok := os.LookupEnv(envKey)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return errors.Wrapf(err, "invalid %s", envKey)
	}
	*target = parsed
	return nil
}
