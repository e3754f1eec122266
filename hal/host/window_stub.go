//go:build !baremetal && !cgo

package host

import (
	"errors"

	"kcons/hal"
)

func RunWindow(_ func(hal.HAL) func() error, _ Config) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
