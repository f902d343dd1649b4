package morse

import (
	"strings"
)

const (
	// DefaultEncodeUnknown replaces characters with no Morse pattern.
	DefaultEncodeUnknown = "[?]"
	// DefaultDecodeUnknown replaces tokens that match no pattern.
	DefaultDecodeUnknown = "?"
)

type codecOptions struct {
	unknown    string
	hasUnknown bool
}

// CodecOption ...
type CodecOption func(*codecOptions)

// WithUnknownToken sets the placeholder emitted for unmapped input.
func WithUnknownToken(tok string) CodecOption {
	return func(o *codecOptions) {
		o.unknown = tok
		o.hasUnknown = true
	}
}

func resolveUnknown(def string, opts []CodecOption) string {
	var o codecOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasUnknown {
		return def
	}
	return o.unknown
}

// Encode converts text to Morse. Input is matched case-insensitively, every
// character yields exactly one token and tokens are separated by a single space.
func Encode(text string, opts ...CodecOption) string {
	unknown := resolveUnknown(DefaultEncodeUnknown, opts)

	text = strings.ToLower(text)
	tokens := make([]string, 0, len(text))
	for _, r := range text {
		if pattern, ok := morseTable[r]; ok {
			tokens = append(tokens, pattern)
		} else {
			tokens = append(tokens, unknown)
		}
	}

	return strings.Join(tokens, " ")
}

// Decode converts whitespace separated Morse tokens back to text.
func Decode(morse string, opts ...CodecOption) string {
	unknown := resolveUnknown(DefaultDecodeUnknown, opts)

	var sb strings.Builder
	for _, tok := range tokenize(morse) {
		if tok == WordSeparator {
			sb.WriteByte(' ')
			continue
		}
		if r, ok := morseMap[tok]; ok {
			sb.WriteRune(r)
		} else {
			sb.WriteString(unknown)
		}
	}

	return sb.String()
}

func tokenize(morse string) []string {
	return strings.Fields(morse)
}
