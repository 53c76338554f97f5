package chunkseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 2: random read with and without skip index on a 50000-element,
// 25-chunk sequence (below SkipIndexThreshold, so both builders resolve
// indices through the linear walk of findChunkForIndex, never the skip descent).
func TestRandomReadWithAndWithoutSkipIndex(t *testing.T) {
	const n = 50000
	want := make([]int, n)
	for i := range want {
		want[i] = i
	}

	plain, err := NewBuilder[int](BuilderOptions[int]{Capacity: 2000, UseSkipIndex: false})
	require.NoError(t, err)
	populateOneAtATime(t, plain, want)

	indexed, err := NewBuilder[int](BuilderOptions[int]{Capacity: 2000, UseSkipIndex: true})
	require.NoError(t, err)
	populateOneAtATime(t, indexed, want)

	order := pseudoShuffledIndices(n, 12345)
	for _, i := range order {
		a, err := plain.At(i)
		require.NoError(t, err)
		b, err := indexed.At(i)
		require.NoError(t, err)
		require.Equal(t, want[i], a)
		require.Equal(t, want[i], b)
	}
}

// pseudoShuffledIndices returns a deterministic permutation of [0, n) using
// a linear congruential step coprime with n, avoiding a dependency on
// math/rand's shuffle algorithm for a reproducible test fixture.
func pseudoShuffledIndices(n int, seed int) []int {
	step := 7919 // prime, coprime with most practical n
	out := make([]int, n)
	cur := seed % n
	for i := 0; i < n; i++ {
		out[i] = cur
		cur = (cur + step) % n
	}
	return out
}

// populateOneAtATime grows b one element per Append call, so every
// promotion sizes the new chunk from the full head's length (capped at
// MaxChunkSize) and the chain ends up as equal-sized chunks, rather than the
// single promotion a bulk AppendSlice/AppendRange call performs regardless of size.
func populateOneAtATime(t *testing.T, b *ChunkedValueBuilder[int], values []int) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, b.Append(v, 1))
	}
}

func TestSkipIndexPopulatedOnlyOnEvenChunks(t *testing.T) {
	b, err := NewBuilder[int](BuilderOptions[int]{Capacity: 16, UseSkipIndex: true})
	require.NoError(t, err)

	values := make([]int, 16*(SkipIndexThreshold+20))
	for i := range values {
		values[i] = i
	}
	populateOneAtATime(t, b, values)
	require.Greater(t, b.head.index, SkipIndexThreshold, "fixture must actually build a chain past the threshold")

	sawPopulatedSkipMap := false
	for c := b.head; c != nil; c = c.previous {
		if c.index == 0 || c.index%2 != 0 {
			assert.Nil(t, c.skip, "chunk %d should not carry a skip map", c.index)
			continue
		}
		if c.skip == nil {
			continue
		}
		for _, k := range c.skip.descendingKeys() {
			entry, ok := c.skip.get(k)
			require.True(t, ok)
			require.NotNil(t, entry)
			sawPopulatedSkipMap = true
			assert.Equal(t, pow2(k), c.index-entry.index, "skip map invariant at chunk %d key %d", c.index, k)
			assert.Equal(t, 0, c.index%pow2(k), "2^%d must divide chunk index %d", k, c.index)
		}
	}
	assert.True(t, sawPopulatedSkipMap, "no chunk in the chain carried a populated skip entry")
}

func TestFindChunkForIndexAboveThreshold(t *testing.T) {
	const chunkSize = 16
	n := chunkSize * (SkipIndexThreshold + 20)
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}

	plain, err := NewBuilder[int](BuilderOptions[int]{Capacity: chunkSize, UseSkipIndex: false})
	require.NoError(t, err)
	populateOneAtATime(t, plain, values)

	indexed, err := NewBuilder[int](BuilderOptions[int]{Capacity: chunkSize, UseSkipIndex: true})
	require.NoError(t, err)
	populateOneAtATime(t, indexed, values)
	require.Greater(t, indexed.head.index, SkipIndexThreshold, "fixture must actually build a chain past the threshold")

	order := pseudoShuffledIndices(n, 424242)
	for _, i := range order {
		want := values[i]
		a, err := plain.At(i)
		require.NoError(t, err)
		b, err := indexed.At(i)
		require.NoError(t, err)
		require.Equal(t, want, a)
		require.Equal(t, want, b)
	}
}
