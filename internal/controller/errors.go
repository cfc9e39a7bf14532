package controller

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var structuralErrors = []error{
	os.ErrNotExist,
	os.ErrPermission,
	os.ErrClosed,
	unix.ENODEV,
	unix.ENXIO,
	unix.EBADF,
}

// IsStructuralError reports whether err means the device is gone or unusable,
// as opposed to a single failed read or write that may succeed on the next tick.
func IsStructuralError(err error) bool {
	for _, target := range structuralErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
