package imageproc

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressFromMemory(t *testing.T) {
	src := encodeJPEG(t, makeTestImage(200, 100))

	buf, err := CompressFromMemory(src, cfg(80, 100, 100, true))
	require.NoError(t, err)
	defer Release(buf)

	data, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, len(data), buf.Len())

	size := decodeBytes(t, data)
	assert.Equal(t, 100, size.X)
	assert.Equal(t, 50, size.Y)
}

func TestCompressFromMemory_MatchesFileOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeJPEG(t, dir, "in.jpg", 90, 60)
	dst := filepath.Join(dir, "out.jpg")
	c := cfg(70, 45, 45, true)

	require.NoError(t, Compress(src, dst, c))
	fileSize := decodeFile(t, dst)

	buf, err := CompressFromMemory(encodeJPEG(t, makeTestImage(90, 60)), c)
	require.NoError(t, err)
	defer buf.Release()

	data, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, fileSize, decodeBytes(t, data))
}

func TestCompressFromMemory_Errors(t *testing.T) {
	good := DefaultConfig()
	src := encodeJPEG(t, makeTestImage(20, 20))

	_, err := CompressFromMemory(nil, &good)
	assert.Equal(t, InvalidParams, CodeOf(err))

	_, err = CompressFromMemory(src, nil)
	assert.Equal(t, InvalidParams, CodeOf(err))

	_, err = CompressFromMemory([]byte{0xff, 0xd8, 0xff, 0x00, 0x01}, &good)
	assert.Equal(t, InvalidImage, CodeOf(err))

	buf, err := CompressFromMemory([]byte("GIF89a-but-not-really"), &good)
	assert.Nil(t, buf)
	assert.Equal(t, InvalidImage, CodeOf(err))
}

func TestCompressFromMemory_OutputCap(t *testing.T) {
	src := encodeJPEG(t, makeTestImage(64, 64))
	p := New(WithMaxOutputBytes(16))

	buf, err := p.CompressFromMemory(src, cfg(90, 64, 64, false))
	assert.Nil(t, buf)
	require.Error(t, err)
	assert.Equal(t, MemoryAllocation, CodeOf(err))
	assert.ErrorIs(t, err, ErrMemoryAllocation)

	roomy := New(WithMaxOutputBytes(1 << 20))
	buf, err = roomy.CompressFromMemory(src, cfg(90, 64, 64, false))
	require.NoError(t, err)
	assert.True(t, buf.Release())
}

func TestOwnedBuffer_ReleaseIsIdempotent(t *testing.T) {
	buf := newOwnedBuffer([]byte{1, 2, 3})
	view, err := buf.Bytes()
	require.NoError(t, err)

	assert.False(t, buf.Released())
	assert.True(t, buf.Release())
	assert.True(t, buf.Released())
	assert.False(t, buf.Release())

	// The old view was zeroed in place.
	assert.Equal(t, []byte{0, 0, 0}, view)
	assert.Equal(t, 0, buf.Len())

	_, err = buf.Bytes()
	assert.ErrorIs(t, err, ErrReleased)
	_, err = buf.Detach()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestOwnedBuffer_Detach(t *testing.T) {
	buf := newOwnedBuffer([]byte("jpeg"))
	data, err := buf.Detach()
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
	assert.True(t, buf.Released())

	// Detached bytes survive a later Release.
	assert.False(t, buf.Release())
	assert.Equal(t, []byte("jpeg"), data)
}

func TestOwnedBuffer_Nil(t *testing.T) {
	var buf *OwnedBuffer
	assert.False(t, buf.Release())
	assert.True(t, buf.Released())
	assert.Equal(t, 0, buf.Len())
	_, err := buf.Bytes()
	assert.ErrorIs(t, err, ErrReleased)
	assert.NotPanics(t, func() { Release(nil) })
}

func TestOwnedBuffer_WriteTo(t *testing.T) {
	buf := newOwnedBuffer([]byte("abc"))
	var out bytes.Buffer
	n, err := buf.WriteTo(&out)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, "abc", out.String())

	buf.Release()
	_, err = buf.WriteTo(&out)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestOwnedBuffer_ConcurrentRelease(t *testing.T) {
	buf := newOwnedBuffer(make([]byte, 128))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if buf.Release() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
