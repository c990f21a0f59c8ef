//go:build !linux
// +build !linux

package transmitter

import "errors"

// raisePriority is not supported on this platform.
func raisePriority() error {
	return errors.New("scheduling priority not supported")
}
