package imageproc

import (
	"errors"
	"io"
	"sync"
)

// ErrReleased is returned when an OwnedBuffer is used after Release or Detach.
var ErrReleased = errors.New("imageproc: buffer already released")

// OwnedBuffer holds encoded output whose ownership has passed to the caller.
//
// Exactly one of Release or Detach ends its life; later calls to Release are
// no-ops and every accessor returns ErrReleased. OwnedBuffer must be used
// through the pointer returned by CompressFromMemory; it contains a lock, so
// go vet reports accidental copies.
type OwnedBuffer struct {
	mu       sync.Mutex
	data     []byte
	released bool
}

func newOwnedBuffer(data []byte) *OwnedBuffer {
	return &OwnedBuffer{data: data}
}

// Len returns the number of encoded bytes, or 0 once released.
func (b *OwnedBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Bytes returns a view of the encoded bytes. The view is only valid until
// Release; Release zeroes it.
func (b *OwnedBuffer) Bytes() ([]byte, error) {
	if b == nil {
		return nil, ErrReleased
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil, ErrReleased
	}
	return b.data, nil
}

// WriteTo writes the encoded bytes to w.
func (b *OwnedBuffer) WriteTo(w io.Writer) (int64, error) {
	data, err := b.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Detach moves the bytes out of the buffer. The caller owns the returned
// slice outright and the buffer is left released.
func (b *OwnedBuffer) Detach() ([]byte, error) {
	if b == nil {
		return nil, ErrReleased
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil, ErrReleased
	}
	data := b.data
	b.data = nil
	b.released = true
	return data, nil
}

// Release drops the bytes. It reports whether this call did the release;
// releasing a nil or already released buffer returns false and does nothing.
func (b *OwnedBuffer) Release() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return false
	}
	clear(b.data)
	b.data = nil
	b.released = true
	return true
}

// Released reports whether the buffer has been released or detached.
func (b *OwnedBuffer) Released() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Release is the boundary form of (*OwnedBuffer).Release.
func Release(b *OwnedBuffer) {
	b.Release()
}
