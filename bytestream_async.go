package chunkseq

import (
	"context"
	"io"
)

// asyncResult is a synchronous-complete stand-in for a future: every async
// method on ChunkedByteStream returns one already populated, since the
// stream never actually suspends — there is no I/O underneath it, only
// memory already resident in the chunk chain.
type asyncResult struct {
	n   int64
	err error
}

// N returns the byte count the operation completed with.
func (r *asyncResult) N() int64 { return r.n }

// Err returns the error the operation completed (or faulted) with.
func (r *asyncResult) Err() error { return r.err }

// completedZero and completedOne are returned instead of allocating a new
// asyncResult for the two most common successful outcomes.
var (
	completedZero = &asyncResult{n: 0}
	completedOne  = &asyncResult{n: 1}
)

func memoizedResult(n int64, err error) *asyncResult {
	if err == nil {
		switch n {
		case 0:
			return completedZero
		case 1:
			return completedOne
		}
	}
	return &asyncResult{n: n, err: err}
}

// ReadAsync performs Read and returns an already-completed result. ctx is
// only checked up front: since the operation never suspends, there is
// nothing for cancellation to interrupt mid-flight.
func (s *ChunkedByteStream) ReadAsync(ctx context.Context, p []byte) *asyncResult {
	if err := ctx.Err(); err != nil {
		return &asyncResult{err: err}
	}
	n, err := s.Read(p)
	return memoizedResult(int64(n), err)
}

// WriteAsync performs Write and returns an already-completed result.
func (s *ChunkedByteStream) WriteAsync(ctx context.Context, p []byte) *asyncResult {
	if err := ctx.Err(); err != nil {
		return &asyncResult{err: err}
	}
	n, err := s.Write(p)
	return memoizedResult(int64(n), err)
}

// CopyToAsync copies the remaining unread bytes to dst and returns an
// already-completed result. When dst is itself a ChunkedByteStream, this
// takes a fast path that checks dst is open and writable, then
// materializes the unread range once and writes it in a single call.
// Any other dst is handed to WriteTo.
func (s *ChunkedByteStream) CopyToAsync(ctx context.Context, dst io.Writer) *asyncResult {
	if err := ctx.Err(); err != nil {
		return &asyncResult{err: err}
	}
	if cb, ok := dst.(*ChunkedByteStream); ok {
		n, err := s.copyToChunkedFast(cb)
		return memoizedResult(n, err)
	}
	n, err := s.WriteTo(dst)
	return memoizedResult(n, err)
}

func (s *ChunkedByteStream) copyToChunkedFast(dst *ChunkedByteStream) (int64, error) {
	const op = "ChunkedByteStream.CopyToAsync"
	if s.closed {
		return 0, invalidState(op, "source stream is closed")
	}
	if dst.closed {
		return 0, invalidState(op, "destination stream is closed")
	}
	if !dst.writable {
		return 0, invalidState(op, "destination stream is not writable")
	}
	remaining := s.buf.Len() - s.pos
	if remaining <= 0 {
		return 0, nil
	}
	buf, err := s.buf.ToArrayRange(s.pos, remaining)
	if err != nil {
		return 0, err
	}
	n, err := dst.Write(buf)
	s.pos += n
	return int64(n), err
}
