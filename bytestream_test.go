package chunkseq

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 6: byte-stream write/read round-trip, writing in 2048-byte
// chunks and reading back in 1024-byte chunks.
func TestByteStreamWriteReadRoundTrip(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)

	written := make([]byte, 10000)
	rand.New(rand.NewSource(42)).Read(written)

	for off := 0; off < len(written); off += 2048 {
		end := min(off+2048, len(written))
		n, err := s.Write(written[off:end])
		require.NoError(t, err)
		assert.Equal(t, end-off, n)
	}
	assert.Equal(t, int64(len(written)), s.Length())

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)

	read := make([]byte, 0, len(written))
	buf := make([]byte, 1024)
	for {
		n, err := s.Read(buf)
		read = append(read, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, written, read)
	assert.Equal(t, written, s.ToArray())
}

func TestByteStreamWriteOverwritesAtPosition(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)

	_, err = s.Write([]byte("hello world"))
	require.NoError(t, err)

	_, err = s.Seek(6, io.SeekStart)
	require.NoError(t, err)
	n, err := s.Write([]byte("there"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, []byte("hello there"), s.ToArray())
	assert.Equal(t, int64(11), s.Length())
}

func TestByteStreamWriteExtendsPastLengthWithGapZeroFill(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)

	_, err = s.Seek(5, io.SeekStart)
	require.NoError(t, err)
	_, err = s.Write([]byte("x"))
	require.NoError(t, err)

	want := []byte{0, 0, 0, 0, 0, 'x'}
	assert.Equal(t, want, s.ToArray())
}

func TestByteStreamReadPastLengthReturnsEOF(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)
	require.NoError(t, s.SetLength(3))

	buf := make([]byte, 10)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestByteStreamSeekBeforeOriginFails(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)
	_, err = s.Seek(-1, io.SeekStart)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, InvalidState, cerr.Kind)
}

func TestByteStreamClosedOperationsFail(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)
	_, err = s.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Write([]byte("x"))
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, InvalidState, cerr.Kind)

	_, err = s.Read(make([]byte, 1))
	require.Error(t, err)

	// ToArray remains valid after close: the buffer is retained.
	assert.Equal(t, []byte("abc"), s.ToArray())
}

func TestByteStreamWriteToUnreadRemainder(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)
	_, err = s.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = s.Seek(4, io.SeekStart)
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := s.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "456789", out.String())
}

func TestByteStreamReadAsyncCompletesSynchronously(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)
	_, err = s.Write([]byte("abcdef"))
	require.NoError(t, err)
	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 3)
	res := s.ReadAsync(context.Background(), buf)
	require.NoError(t, res.Err())
	assert.Equal(t, int64(3), res.N())
	assert.Equal(t, []byte("abc"), buf)
}

func TestByteStreamCopyToAsyncFastPathBetweenStreams(t *testing.T) {
	src, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)
	_, err = src.Write([]byte("fast path bytes"))
	require.NoError(t, err)
	_, err = src.Seek(0, io.SeekStart)
	require.NoError(t, err)

	dst, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)

	res := src.CopyToAsync(context.Background(), dst)
	require.NoError(t, res.Err())
	assert.Equal(t, []byte("fast path bytes"), dst.ToArray())
}

func TestByteStreamAsyncHonorsCancelledContext(t *testing.T) {
	s, err := NewChunkedByteStream(StreamOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.WriteAsync(ctx, []byte("abc"))
	require.Error(t, res.Err())
	assert.Equal(t, int64(0), s.Length())
}
