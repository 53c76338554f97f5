package chunkseq

// promote freezes the current head as a full, previous-linked node and
// installs a fresh head of the given size. Both growth strategies below
// (the generic per-element path and the one-shot bulk-append path) funnel
// through this so chunk freezing, offset bookkeeping, and skip-index
// population happen in exactly one place. When newSize would overrun
// MaxCapacity but the room left still holds minNeeded elements, the new
// head is sized to exactly that room.
func (b *ChunkedValueBuilder[T]) promote(newSize, minNeeded int) error {
	const op = "ChunkedValueBuilder.promote"
	if newSize <= 0 {
		newSize = DefaultCapacity
	}
	offset := b.head.offset + b.head.length
	if room := b.maxCapacity - offset; newSize > room && room > 0 && room >= minNeeded {
		newSize = room
	}
	if offset < 0 || offset+newSize < offset || offset+newSize > b.maxCapacity {
		return capacityExceeded(op, "growth to %d elements would exceed max capacity %d", offset+newSize, b.maxCapacity)
	}

	frozen := &chunk[T]{
		data:     b.head.data,
		length:   b.head.length,
		offset:   b.head.offset,
		index:    b.head.index,
		previous: b.head.previous,
		skip:     b.head.skip,
	}

	b.head.previous = frozen
	b.head.offset = offset
	b.head.length = 0
	b.head.index++
	b.head.skip = nil
	b.head.data = make([]T, newSize)

	if b.useSkipIndex {
		populateSkipIndex(b.head, frozen)
	}
	Log.WithFields(b.logFields()).Debug("promoted head chunk")
	return nil
}

// expandByABlock grows the head through the generic growth protocol: the
// new chunk is sized to whichever is larger of minNeeded and the current
// head's length, capped at MaxChunkSize. A single Append(value, count)
// call with a very large count may therefore promote several chunks in
// sequence, each no larger than MaxChunkSize.
func (b *ChunkedValueBuilder[T]) expandByABlock(minNeeded int) error {
	size := max(minNeeded, b.head.length)
	size = min(size, MaxChunkSize)
	return b.promote(size, minNeeded)
}

// expandForBulkAppend grows the head for a single bulk-slice append. Unlike
// expandByABlock, the new chunk is not capped at MaxChunkSize: it is sized
// to hold the entire remainder of the append in one allocation, so a bulk
// append call never promotes more than once.
func (b *ChunkedValueBuilder[T]) expandForBulkAppend(remaining, oldHeadLength int) error {
	size := max(remaining, min(oldHeadLength, MaxChunkSize))
	return b.promote(size, remaining)
}
