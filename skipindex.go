package chunkseq

import (
	"github.com/boljen/go-bitmap"
	"github.com/sirupsen/logrus"
)

// maxSkipExponent bounds the exponent space for a chunk's back-pointer
// table. MaxCapacity defaults to the platform's max signed 32-bit index, so
// a chunk count beyond 2^32 never occurs and 32 slots comfortably cover
// every real exponent a chunk can carry.
const maxSkipExponent = 32

// SkipIndexThreshold is the minimum chunk index before findChunkForIndex
// prefers skip-map descent over a linear walk.
const SkipIndexThreshold = 400

// skipIndex is the sparse back-pointer table attached to even-indexed
// chunks. It is keyed by exponent k: entry k on a chunk at index i points
// at the chunk 2^k positions earlier, and only exists when 2^k divides i.
// Rather than a map, this uses a fixed-size pointer array plus a bitmap
// tracking which slots are populated, the same way a sparse loaded-chunk
// cache tracks presence over a backing bitmap.Bitmap.
type skipIndex[T comparable] struct {
	present bitmap.Bitmap
	entries [maxSkipExponent]*chunk[T]
}

func newSkipIndex[T comparable]() *skipIndex[T] {
	return &skipIndex[T]{present: bitmap.New(maxSkipExponent)}
}

func (s *skipIndex[T]) get(k int) (*chunk[T], bool) {
	if s == nil || k <= 0 || k >= maxSkipExponent || !s.present.Get(k) {
		return nil, false
	}
	return s.entries[k], true
}

func (s *skipIndex[T]) set(k int, c *chunk[T]) {
	s.entries[k] = c
	s.present.Set(k, true)
}

// descendingKeys returns the populated exponents from largest to smallest,
// enabling the coarse-to-fine descent findChunkForIndex performs.
func (s *skipIndex[T]) descendingKeys() []int {
	if s == nil {
		return nil
	}
	var keys []int
	for k := maxSkipExponent - 1; k >= 1; k-- {
		if s.present.Get(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

func pow2(n int) int { return 1 << uint(n) }

// populateSkipIndex installs back-pointers on head once it has been
// promoted to the given even index, with previous being the chunk
// immediately before head (the node that was just frozen).
//
// The entry for exponent k must satisfy head.index - entry.index == 2^k.
// For k==1 that target is two chunks back: previous is the odd, unindexed
// node at head.index-1, so previous.previous is the even chunk at
// head.index-2. For k>1, standard binary lifting applies: the chunk
// already linked at exponent k-1 is itself even and carries its own entry
// at exponent k-1 pointing exactly 2^(k-1) further back — i.e. 2^k back
// from head. When that direct chase is unavailable, a slower fallback
// walks back two chunks at a time until a chunk carrying key k-1 turns up.
func populateSkipIndex[T comparable](head, previous *chunk[T]) {
	idx := head.index
	if idx == 0 || idx%2 != 0 {
		return
	}
	head.skip = newSkipIndex[T]()
	for n := 1; pow2(n) <= idx; n++ {
		if idx%pow2(n) != 0 {
			continue
		}
		if n == 1 {
			if previous != nil {
				head.skip.set(n, previous.previous)
			}
			continue
		}
		if mid, ok := head.skip.get(n - 1); ok && mid != nil {
			if target, ok := mid.skip.get(n - 1); ok {
				head.skip.set(n, target)
				continue
			}
		}
		// Fallback: walk backward two chunks at a time from the even chunk
		// before previous until a chunk carrying key n-1 is found, then copy
		// its pointer.
		var walker *chunk[T]
		if previous != nil {
			walker = previous.previous
		}
		for walker != nil {
			if target, ok := walker.skip.get(n - 1); ok {
				head.skip.set(n, target)
				break
			}
			if walker.previous == nil {
				break
			}
			walker = walker.previous.previous
		}
	}
	Log.WithFields(logrus.Fields{"chunk_index": idx}).Debug("populated skip index")
}

// findChunkForIndex locates the chunk containing logical index target,
// starting the search from head. At each step it picks the largest-stride
// skip entry whose target still has offset > target, falling back to a
// single step to previous when no stride qualifies.
func findChunkForIndex[T comparable](head *chunk[T], target int) *chunk[T] {
	cur := head
	for cur.offset > target {
		if cur.index <= SkipIndexThreshold || cur.skip == nil {
			cur = cur.previous
			continue
		}
		stepped := false
		for _, k := range cur.skip.descendingKeys() {
			candidate, ok := cur.skip.get(k)
			if !ok || candidate == nil {
				continue
			}
			if candidate.offset > target {
				cur = candidate
				stepped = true
				break
			}
		}
		if !stepped {
			cur = cur.previous
		}
	}
	return cur
}
