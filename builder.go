package chunkseq

import (
	"math"
	"unsafe"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultCapacity is the initial head array size.
	DefaultCapacity = 16
	// MaxChunkSize caps the per-chunk backing array length when growing
	// through the generic growth protocol.
	MaxChunkSize = 2000
)

// DefaultMaxCapacity is the ceiling used when a builder is constructed
// without an explicit MaxCapacity: the platform's maximum signed 32-bit
// index.
const DefaultMaxCapacity = math.MaxInt32

// BuilderOptions configures a ChunkedValueBuilder at construction, using a
// trailing options struct rather than a pile of constructor overloads.
//
// Leaving Values nil constructs an empty builder sized by Capacity. Setting
// Values seeds the head from values[Start:Start+Length]; Capacity then sets
// the head's backing array size (it is raised to Length if smaller).
type BuilderOptions[T comparable] struct {
	Capacity     int
	MaxCapacity  int
	Values       []T
	Start        int
	Length       int
	UseSkipIndex bool
}

// ChunkedValueBuilder is an append-optimized, index-accessible, mutable
// sequence of a fixed value type T, stored as a reverse-linked list of
// array chunks.
type ChunkedValueBuilder[T comparable] struct {
	head         *chunk[T]
	maxCapacity  int
	useSkipIndex bool
}

// New constructs an empty builder with DefaultCapacity and no skip index.
func New[T comparable]() *ChunkedValueBuilder[T] {
	b, err := NewBuilder[T](BuilderOptions[T]{})
	if err != nil {
		// DefaultCapacity never exceeds DefaultMaxCapacity.
		panic(err)
	}
	return b
}

// NewBuilder constructs a builder per opt.
func NewBuilder[T comparable](opt BuilderOptions[T]) (*ChunkedValueBuilder[T], error) {
	const op = "chunkseq.NewBuilder"

	maxCapacity := opt.MaxCapacity
	if maxCapacity == 0 {
		maxCapacity = DefaultMaxCapacity
	}
	if maxCapacity < 0 {
		return nil, invalidArgument(op, "max capacity must be non-negative, got %d", maxCapacity)
	}

	if opt.Values != nil {
		if opt.Start < 0 || opt.Length < 0 || opt.Start+opt.Length > len(opt.Values) {
			return nil, invalidArgument(op, "slice bounds [%d:%d+%d] out of range for length %d", opt.Start, opt.Start, opt.Length, len(opt.Values))
		}
		capacity := opt.Capacity
		if capacity < opt.Length {
			capacity = opt.Length
		}
		if capacity > maxCapacity {
			return nil, capacityExceeded(op, "initial capacity %d exceeds max capacity %d", capacity, maxCapacity)
		}
		head := newChunk[T](capacity)
		copy(head.data, opt.Values[opt.Start:opt.Start+opt.Length])
		head.length = opt.Length
		return &ChunkedValueBuilder[T]{head: head, maxCapacity: maxCapacity, useSkipIndex: opt.UseSkipIndex}, nil
	}

	capacity := opt.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, invalidArgument(op, "capacity must be non-negative, got %d", capacity)
	}
	if capacity > maxCapacity {
		return nil, capacityExceeded(op, "initial capacity %d exceeds max capacity %d", capacity, maxCapacity)
	}
	return &ChunkedValueBuilder[T]{head: newChunk[T](capacity), maxCapacity: maxCapacity, useSkipIndex: opt.UseSkipIndex}, nil
}

// Len returns the logical length of the sequence: head.offset + head.length.
func (b *ChunkedValueBuilder[T]) Len() int { return b.head.offset + b.head.length }

// Cap returns the total backing capacity: head.capacity + head.offset.
func (b *ChunkedValueBuilder[T]) Cap() int { return b.head.capacity() + b.head.offset }

// MaxCapacity returns the ceiling configured at construction.
func (b *ChunkedValueBuilder[T]) MaxCapacity() int { return b.maxCapacity }

// SetCap reallocates the head's backing array to hold n elements total.
func (b *ChunkedValueBuilder[T]) SetCap(n int) error {
	const op = "ChunkedValueBuilder.SetCap"
	if n < b.Len() {
		return invalidArgument(op, "capacity %d less than length %d", n, b.Len())
	}
	if n > b.maxCapacity {
		return capacityExceeded(op, "capacity %d exceeds max capacity %d", n, b.maxCapacity)
	}
	headCapacity := n - b.head.offset
	grown := make([]T, headCapacity)
	copy(grown, b.head.data[:b.head.length])
	b.head.data = grown
	return nil
}

// SetLen extends or truncates the sequence. Extending delegates to Append
// with the zero value; shrinking locates the
// target chunk, enlarges it to preserve the original total capacity if it
// isn't already the head, repoints the head at it, and trims its length.
func (b *ChunkedValueBuilder[T]) SetLen(n int) error {
	const op = "ChunkedValueBuilder.SetLen"
	if n < 0 {
		return invalidArgument(op, "length must be non-negative, got %d", n)
	}
	cur := b.Len()
	if n == cur {
		return nil
	}
	if n > cur {
		var zero T
		return b.Append(zero, n-cur)
	}

	originalCapacity := b.Cap()
	target := findChunkForIndex(b.head, n)
	if target != b.head {
		newHeadCapacity := originalCapacity - target.offset
		if newHeadCapacity < target.capacity() {
			newHeadCapacity = target.capacity()
		}
		grown := make([]T, newHeadCapacity)
		copy(grown, target.data)
		target.data = grown
		b.head = target
	}
	b.head.length = n - b.head.offset
	return nil
}

// At returns the element at logical index i.
func (b *ChunkedValueBuilder[T]) At(i int) (T, error) {
	const op = "ChunkedValueBuilder.At"
	var zero T
	if i < 0 || i >= b.Len() {
		return zero, outOfRange(op, i, b.Len())
	}
	c := findChunkForIndex(b.head, i)
	return c.data[i-c.offset], nil
}

// Set overwrites the element at logical index i.
func (b *ChunkedValueBuilder[T]) Set(i int, v T) error {
	const op = "ChunkedValueBuilder.Set"
	if i < 0 || i >= b.Len() {
		return outOfRange(op, i, b.Len())
	}
	c := findChunkForIndex(b.head, i)
	c.data[i-c.offset] = v
	return nil
}

// CopyTo copies count elements starting at srcIndex into dest starting at
// destIndex, walking chunks backward from the one containing
// srcIndex+count toward srcIndex.
func (b *ChunkedValueBuilder[T]) CopyTo(srcIndex int, dest []T, destIndex, count int) error {
	const op = "ChunkedValueBuilder.CopyTo"
	if srcIndex < 0 || count < 0 || srcIndex+count > b.Len() {
		return invalidArgument(op, "source range [%d:+%d] out of range for length %d", srcIndex, count, b.Len())
	}
	if destIndex < 0 || count < 0 || destIndex+count > len(dest) {
		return invalidArgument(op, "destination range [%d:+%d] out of range for length %d", destIndex, count, len(dest))
	}
	if count == 0 {
		return nil
	}
	end := srcIndex + count
	c := findChunkForIndex(b.head, end-1)
	remaining := count
	for remaining > 0 {
		if c == nil {
			corrupted(op, "chunk chain exhausted with %d elements remaining", remaining)
		}
		lo := srcIndex
		if lo < c.offset {
			lo = c.offset
		}
		hi := end
		if hi > c.offset+c.length {
			hi = c.offset + c.length
		}
		n := hi - lo
		copy(dest[destIndex+(lo-srcIndex):destIndex+(lo-srcIndex)+n], c.data[lo-c.offset:hi-c.offset])
		remaining -= n
		c = c.previous
	}
	return nil
}

// ToArray materializes the full logical sequence as a contiguous slice.
// Returns an empty, non-nil slice when Len() == 0.
func (b *ChunkedValueBuilder[T]) ToArray() []T {
	out := make([]T, b.Len())
	if len(out) == 0 {
		return out
	}
	if err := b.CopyTo(0, out, 0, len(out)); err != nil {
		corrupted("ChunkedValueBuilder.ToArray", "%v", err)
	}
	return out
}

// ToArrayRange materializes the sub-range [startIndex, startIndex+length)
// as a contiguous slice.
func (b *ChunkedValueBuilder[T]) ToArrayRange(startIndex, length int) ([]T, error) {
	const op = "ChunkedValueBuilder.ToArrayRange"
	if startIndex < 0 || length < 0 || startIndex+length > b.Len() {
		return nil, invalidArgument(op, "range [%d:+%d] out of range for length %d", startIndex, length, b.Len())
	}
	out := make([]T, length)
	if length == 0 {
		return out, nil
	}
	if err := b.CopyTo(startIndex, out, 0, length); err != nil {
		return nil, err
	}
	return out, nil
}

// Equals reports whether b and other have the same Length, Capacity,
// MaxCapacity, and element sequence. The two chunk chains are walked
// backward in lockstep rather than compared via two ToArray calls, so
// comparing two large, mostly-equal builders doesn't pay for two full
// materializations just to find a difference near the end.
func (b *ChunkedValueBuilder[T]) Equals(other *ChunkedValueBuilder[T]) bool {
	if other == nil {
		return false
	}
	if b.Len() != other.Len() || b.Cap() != other.Cap() || b.maxCapacity != other.maxCapacity {
		return false
	}
	ac, ai := b.head, b.head.length
	bc, bi := other.head, other.head.length
	for {
		for ac != nil && ai == 0 {
			ac = ac.previous
			if ac != nil {
				ai = ac.length
			}
		}
		for bc != nil && bi == 0 {
			bc = bc.previous
			if bc != nil {
				bi = bc.length
			}
		}
		if ac == nil || bc == nil {
			return ac == nil && bc == nil
		}
		ai--
		bi--
		if ac.data[ai] != bc.data[bi] {
			return false
		}
	}
}

// MemSize sums the byte size of every chunk's backing array plus the
// skip-index entry cost for every chunk carrying a map. It is provided for
// observability and is not part of any correctness contract.
func (b *ChunkedValueBuilder[T]) MemSize() int64 {
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	skipEntryCost := int64(unsafe.Sizeof(uintptr(0)))

	var total int64
	for c := b.head; c != nil; c = c.previous {
		total += elemSize * int64(c.capacity())
		if c.skip != nil {
			total += int64(len(c.skip.descendingKeys())) * skipEntryCost
		}
	}
	return total
}

func (b *ChunkedValueBuilder[T]) logFields() logrus.Fields {
	return logrus.Fields{"length": b.Len(), "capacity": b.Cap()}
}
