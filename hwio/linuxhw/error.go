package linuxhw

import "syscall"

// Error wraps an underlying syscall/ioctl failure with a short message
// identifying what operation failed, so callers can errors.Is/errors.As
// against a sentinel like ErrClosed regardless of how deep the real
// cause is wrapped.
type Error struct {
	msg string
	err error
}

func (e Error) Error() string {
	if e.msg != "" {
		if e.err != nil {
			return e.msg + ": " + e.err.Error()
		}
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e Error) Unwrap() error { return e.err }

func wrapErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return Error{msg: msg, err: err}
}

// ErrClosed is returned by Port operations performed after Close.
var ErrClosed = Error{"port already closed", syscall.EBADF}
