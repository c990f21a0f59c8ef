//go:build !linux
// +build !linux

package raspberry

import "fmt"

func openChip(name string) (GPIO, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, DriverGpiod)
}

func openMem() (GPIO, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, DriverGpiomem)
}
