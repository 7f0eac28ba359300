package imageproc

import (
	"errors"
	"fmt"

	"github.com/e-illusion/ICPT-S/internal/decoder"
	"github.com/e-illusion/ICPT-S/internal/encoder"
)

// ErrorCode is the closed set of outcomes reported across the C boundary.
// The numeric values are part of the ABI.
type ErrorCode int32

const (
	Success          ErrorCode = 0
	FileNotFound     ErrorCode = -1
	InvalidImage     ErrorCode = -2
	SaveFailed       ErrorCode = -3
	MemoryAllocation ErrorCode = -4
	InvalidParams    ErrorCode = -5
)

func (c ErrorCode) String() string {
	switch c {
	case Success:
		return "success"
	case FileNotFound:
		return "file not found"
	case InvalidImage:
		return "invalid image"
	case SaveFailed:
		return "save failed"
	case MemoryAllocation:
		return "memory allocation failed"
	case InvalidParams:
		return "invalid parameters"
	default:
		return fmt.Sprintf("error code %d", int32(c))
	}
}

// Error is returned by every failing operation. Code keeps the five-kind
// taxonomy; Err keeps the underlying cause.
type Error struct {
	Code ErrorCode
	Op   string // "compress", "thumbnail", "info", "compress_memory"
	Path string // source path, empty for in-memory input
	Err  error
}

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrFileNotFound     = &Error{Code: FileNotFound}
	ErrInvalidImage     = &Error{Code: InvalidImage}
	ErrSaveFailed       = &Error{Code: SaveFailed}
	ErrMemoryAllocation = &Error{Code: MemoryAllocation}
	ErrInvalidParams    = &Error{Code: InvalidParams}
)

func (e *Error) Error() string {
	msg := "imageproc"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Code.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf maps an error returned by this package to its ErrorCode. nil maps
// to Success; errors that did not come from this package map to InvalidImage.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InvalidImage
}

var errPanic = errors.New("unexpected failure")

// classify is the single place where stage errors become codes.
func classify(op, path string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	code := InvalidImage
	switch {
	case errors.Is(err, decoder.ErrNotFound):
		code = FileNotFound
	case errors.Is(err, decoder.ErrInvalid):
		code = InvalidImage
	case errors.Is(err, encoder.ErrEncode):
		code = SaveFailed
	}
	return &Error{Code: code, Op: op, Path: path, Err: err}
}

func invalidParams(op, path, format string, args ...any) *Error {
	return &Error{Code: InvalidParams, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
