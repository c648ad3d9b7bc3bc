package handle

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchChild           = errors.New("no such child")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrUnsupportedIndex      = errors.New("unsupported index form")
	ErrUnsupportedAssignment = errors.New("unsupported assignment")
	ErrLengthMismatch        = errors.New("length mismatch")
	ErrUnknownHandleType     = errors.New("unknown handle type")
	ErrReadOnlyValue         = errors.New("read-only value")
	ErrReadOnlyIndex         = errors.New("read-only index")
	ErrNoScheduler           = errors.New("no write scheduler configured")
)

// ResolveError wraps a taxonomy sentinel with object context. All failures
// in this package are local to one resolution or write; none are fatal to
// the process.
type ResolveError struct {
	Kind error
	Msg  string
}

func (e *ResolveError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ResolveError) Unwrap() error { return e.Kind }

func resolvef(kind error, format string, args ...any) error {
	return &ResolveError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
