package coreerr

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// FromIO converts a filesystem error into a system error.
//
// Context cancellation is not an environment failure and is returned
// unchanged so callers can report it as a cancelled outcome.
func FromIO(ctx string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if ce, ok := As(err); ok {
		return ce
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return WrapSystem(KindPermission, false, err, "%s", ctx)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrExist), errors.Is(err, syscall.EISDIR):
		return WrapSystem(KindIO, false, err, "%s", ctx)
	case isTransient(err):
		return WrapSystem(KindIO, true, err, "%s", ctx)
	}

	var pathErr *fs.PathError
	var errno syscall.Errno
	var linkErr *os.LinkError
	if errors.As(err, &errno) || errors.As(err, &pathErr) || errors.As(err, &linkErr) {
		return WrapSystem(KindOS, true, err, "%s", ctx)
	}
	return WrapSystem(KindUnknown, false, err, "%s", ctx)
}

// isTransient reports errors where an identical retry may succeed.
func isTransient(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EINTR, syscall.EAGAIN, syscall.EBUSY, syscall.ETIMEDOUT:
			return true
		}
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return true
	}
	return false
}
