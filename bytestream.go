package chunkseq

import (
	"io"
	"math"
)

// StreamOptions configures a ChunkedByteStream at construction, mirroring
// BuilderOptions' trailing-options shape.
type StreamOptions struct {
	Capacity     int
	MaxCapacity  int
	UseSkipIndex bool
}

// ChunkedByteStream is a random-access, in-memory byte stream backed by a
// ChunkedValueBuilder[byte]. It implements io.Reader, io.Writer, and
// io.Seeker over the same reverse-linked-chunk storage the rest of this
// package uses, rather than a single contiguous buffer.
type ChunkedByteStream struct {
	buf      *ChunkedValueBuilder[byte]
	pos      int
	writable bool
	closed   bool
}

// NewChunkedByteStream constructs an empty, writable stream.
func NewChunkedByteStream(opt StreamOptions) (*ChunkedByteStream, error) {
	buf, err := NewBuilder[byte](BuilderOptions[byte]{
		Capacity:     opt.Capacity,
		MaxCapacity:  opt.MaxCapacity,
		UseSkipIndex: opt.UseSkipIndex,
	})
	if err != nil {
		return nil, err
	}
	return &ChunkedByteStream{buf: buf, writable: true}, nil
}

// NewChunkedByteStreamFromBuilder wraps an existing builder, letting a
// caller populate bytes with the builder API and then stream them.
func NewChunkedByteStreamFromBuilder(buf *ChunkedValueBuilder[byte], writable bool) *ChunkedByteStream {
	return &ChunkedByteStream{buf: buf, writable: writable}
}

func (s *ChunkedByteStream) CanRead() bool  { return !s.closed }
func (s *ChunkedByteStream) CanSeek() bool  { return !s.closed }
func (s *ChunkedByteStream) CanWrite() bool { return !s.closed && s.writable }

// Length returns the current stream length in bytes.
func (s *ChunkedByteStream) Length() int64 { return int64(s.buf.Len()) }

// SetLength extends or truncates the stream. Extension zero-fills the new
// region; truncation that leaves Position beyond the new length does not
// move Position back (matching conventional stream semantics — the next
// Write there extends the stream again and fills the gap).
func (s *ChunkedByteStream) SetLength(n int64) error {
	const op = "ChunkedByteStream.SetLength"
	if s.closed {
		return invalidState(op, "stream is closed")
	}
	if !s.writable {
		return invalidState(op, "stream is not writable")
	}
	if n < 0 {
		return invalidArgument(op, "length %d out of range", n)
	}
	if n > math.MaxInt32 {
		return capacityExceeded(op, "length %d exceeds max capacity", n)
	}
	return s.buf.SetLen(int(n))
}

// Position returns the current read/write cursor.
func (s *ChunkedByteStream) Position() int64 { return int64(s.pos) }

// Capacity returns the stream's total backing capacity in bytes.
func (s *ChunkedByteStream) Capacity() int64 { return int64(s.buf.Cap()) }

// Flush is a no-op: every byte is already resident in the chunk chain.
// It only validates that the stream hasn't been closed, matching the
// contract callers expect from a Flush call on any writer.
func (s *ChunkedByteStream) Flush() error {
	const op = "ChunkedByteStream.Flush"
	if s.closed {
		return invalidState(op, "stream is closed")
	}
	return nil
}

// Read implements io.Reader.
func (s *ChunkedByteStream) Read(p []byte) (int, error) {
	const op = "ChunkedByteStream.Read"
	if s.closed {
		return 0, invalidState(op, "stream is closed")
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= s.buf.Len() {
		return 0, io.EOF
	}
	n := min(len(p), s.buf.Len()-s.pos)
	if err := s.buf.CopyTo(s.pos, p, 0, n); err != nil {
		return 0, err
	}
	s.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (s *ChunkedByteStream) ReadByte() (byte, error) {
	const op = "ChunkedByteStream.ReadByte"
	if s.closed {
		return 0, invalidState(op, "stream is closed")
	}
	if s.pos >= s.buf.Len() {
		return 0, io.EOF
	}
	v, err := s.buf.At(s.pos)
	if err != nil {
		return 0, err
	}
	s.pos++
	return v, nil
}

// Write implements io.Writer. Bytes within the current length are
// overwritten in place; bytes past it extend the stream, zero-filling any
// gap between the prior length and Position first (conventional
// random-access stream semantics, not a pure-append model).
func (s *ChunkedByteStream) Write(p []byte) (int, error) {
	const op = "ChunkedByteStream.Write"
	if s.closed {
		return 0, invalidState(op, "stream is closed")
	}
	if !s.writable {
		return 0, invalidState(op, "stream is not writable")
	}
	if len(p) == 0 {
		return 0, nil
	}

	if s.pos > s.buf.Len() {
		if err := s.buf.SetLen(s.pos); err != nil {
			return 0, err
		}
	}

	overlap := s.buf.Len() - s.pos
	overlap = max(overlap, 0)
	overlap = min(overlap, len(p))
	for i := 0; i < overlap; i++ {
		if err := s.buf.Set(s.pos+i, p[i]); err != nil {
			return i, err
		}
	}
	if overlap < len(p) {
		if err := s.buf.AppendSlice(p[overlap:]); err != nil {
			return overlap, err
		}
	}
	s.pos += len(p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (s *ChunkedByteStream) WriteByte(v byte) error {
	_, err := s.Write([]byte{v})
	return err
}

// Seek implements io.Seeker.
func (s *ChunkedByteStream) Seek(offset int64, whence int) (int64, error) {
	const op = "ChunkedByteStream.Seek"
	if s.closed {
		return 0, invalidState(op, "stream is closed")
	}
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(s.pos) + offset
	case io.SeekEnd:
		newPos = int64(s.buf.Len()) + offset
	default:
		return 0, invalidArgument(op, "invalid whence %d", whence)
	}
	if newPos < 0 {
		return 0, invalidState(op, "seek before start of stream: %d", newPos)
	}
	if newPos > math.MaxInt32 {
		return 0, capacityExceeded(op, "position %d exceeds max capacity", newPos)
	}
	s.pos = int(newPos)
	return newPos, nil
}

// ToArray materializes the entire stream contents as a contiguous slice.
func (s *ChunkedByteStream) ToArray() []byte { return s.buf.ToArray() }

// WriteTo implements io.WriterTo, copying the remaining unread bytes to w
// without an intermediate caller-supplied buffer.
func (s *ChunkedByteStream) WriteTo(w io.Writer) (int64, error) {
	const op = "ChunkedByteStream.WriteTo"
	if s.closed {
		return 0, invalidState(op, "stream is closed")
	}
	remaining := s.buf.Len() - s.pos
	if remaining <= 0 {
		return 0, nil
	}
	buf, err := s.buf.ToArrayRange(s.pos, remaining)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	s.pos += n
	return int64(n), err
}

// Close releases the stream. Subsequent reads, writes, and seeks fail with
// InvalidState. Close never discards the underlying data; a caller that
// retained the builder the stream was built from can keep using it.
func (s *ChunkedByteStream) Close() error {
	s.closed = true
	Log.Debug("closed stream")
	return nil
}
