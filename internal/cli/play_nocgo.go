//go:build !((linux && cgo) || windows || darwin)

package cli

import "github.com/pkg/errors"

const audioAvailable = false

func playWav(data []byte) error {
	return errors.New("audio playback requires cgo")
}
