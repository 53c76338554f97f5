package chunkseq

// Append writes value into the sequence count times, growing the head
// through the generic growth protocol whenever it fills up.
func (b *ChunkedValueBuilder[T]) Append(value T, count int) error {
	const op = "ChunkedValueBuilder.Append"
	if count < 0 {
		return invalidArgument(op, "repeat count must be non-negative, got %d", count)
	}
	remaining := count
	for remaining > 0 {
		room := b.head.capacity() - b.head.length
		if room == 0 {
			if err := b.expandByABlock(remaining); err != nil {
				return err
			}
			room = b.head.capacity() - b.head.length
		}
		n := min(remaining, room)
		for i := 0; i < n; i++ {
			b.head.data[b.head.length+i] = value
		}
		b.head.length += n
		remaining -= n
	}
	return nil
}

// AppendSlice appends every element of values. Inputs of length 1 or 2
// that already fit in the head are written directly, skipping the bounds
// bookkeeping AppendRange otherwise performs on every call.
func (b *ChunkedValueBuilder[T]) AppendSlice(values []T) error {
	if n := len(values); n > 0 && n <= 2 && b.head.capacity()-b.head.length >= n {
		for i, v := range values {
			b.head.data[b.head.length+i] = v
		}
		b.head.length += n
		return nil
	}
	return b.AppendRange(values, 0, len(values))
}

// AppendRange appends count elements of values starting at start. The
// current head absorbs as much as it has room for; if anything remains, a
// single new chunk is allocated sized to hold the entire remainder, so a
// bulk append never promotes more than one chunk regardless of count.
func (b *ChunkedValueBuilder[T]) AppendRange(values []T, start, count int) error {
	const op = "ChunkedValueBuilder.AppendRange"
	if start < 0 || count < 0 || start+count > len(values) {
		return invalidArgument(op, "slice bounds [%d:+%d] out of range for length %d", start, count, len(values))
	}
	if count == 0 {
		return nil
	}

	room := b.head.capacity() - b.head.length
	n := min(count, room)
	copy(b.head.data[b.head.length:b.head.length+n], values[start:start+n])
	b.head.length += n

	remaining := count - n
	if remaining == 0 {
		return nil
	}

	oldHeadLength := b.head.length
	if err := b.expandForBulkAppend(remaining, oldHeadLength); err != nil {
		return err
	}
	copy(b.head.data[:remaining], values[start+n:start+n+remaining])
	b.head.length = remaining
	return nil
}

// Insert splices values, repeated count times, into the sequence starting
// at index. The chunk chain only grows cheaply at the head, so a mid-
// sequence insert is implemented as: save the tail, truncate down to
// index, append the repeated values, then append the saved tail back. The
// cost is proportional to the tail length, not to the whole sequence.
//
// The resulting length is checked against MaxCapacity before anything is
// mutated: once the tail has been saved and the builder truncated there is
// no way to fail partway through re-appending without losing the tail, so
// the capacity check has to happen up front rather than rely on a promote
// failure partway through.
func (b *ChunkedValueBuilder[T]) Insert(index int, values []T, count int) error {
	const op = "ChunkedValueBuilder.Insert"
	if index < 0 || index > b.Len() {
		return outOfRange(op, index, b.Len())
	}
	if count < 0 {
		return invalidArgument(op, "repeat count must be non-negative, got %d", count)
	}
	if len(values) == 0 || count == 0 {
		return nil
	}
	if room := b.maxCapacity - b.Len(); room < 0 || len(values) > room/count {
		return capacityExceeded(op, "inserting %d x %d elements would exceed max capacity %d", len(values), count, b.maxCapacity)
	}

	tail, err := b.ToArrayRange(index, b.Len()-index)
	if err != nil {
		return err
	}
	if err := b.SetLen(index); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := b.AppendSlice(values); err != nil {
			return err
		}
	}
	return b.AppendSlice(tail)
}

// Remove deletes length elements starting at startIndex, using the same
// save-tail/truncate/reappend shape as Insert.
func (b *ChunkedValueBuilder[T]) Remove(startIndex, length int) error {
	const op = "ChunkedValueBuilder.Remove"
	if startIndex < 0 || length < 0 || startIndex+length > b.Len() {
		return invalidArgument(op, "range [%d:+%d] out of range for length %d", startIndex, length, b.Len())
	}
	if length == 0 {
		return nil
	}

	tail, err := b.ToArrayRange(startIndex+length, b.Len()-(startIndex+length))
	if err != nil {
		return err
	}
	if err := b.SetLen(startIndex); err != nil {
		return err
	}
	return b.AppendSlice(tail)
}

// Replace scans the window [startIndex, startIndex+count) for every
// non-overlapping occurrence of the subsequence old, left to right, and
// substitutes new for each. A match is a run where every element equals
// the corresponding element of old; the scan reports a mismatch (and
// advances by one) at the first unequal element, the conventional
// prefix-match reading.
//
// When new is the same length as old, matches are overwritten in place.
// Otherwise the window is rebuilt with the substitutions applied and
// spliced back in using the same save-tail/truncate/reappend shape Insert
// and Remove use, so the sequence's length adjusts by
// (len(new)-len(old)) x occurrences exactly as a length-changing multi-
// value replace should.
func (b *ChunkedValueBuilder[T]) Replace(old, new []T, startIndex, count int) error {
	const op = "ChunkedValueBuilder.Replace"
	if len(old) == 0 {
		return invalidArgument(op, "old must be a non-empty subsequence")
	}
	if startIndex < 0 || count < 0 || startIndex+count > b.Len() {
		return invalidArgument(op, "range [%d:+%d] out of range for length %d", startIndex, count, b.Len())
	}

	window, err := b.ToArrayRange(startIndex, count)
	if err != nil {
		return err
	}

	replaced := make([]T, 0, len(window))
	i := 0
	for i+len(old) <= len(window) {
		if subsequenceMatches(window, i, old) {
			replaced = append(replaced, new...)
			i += len(old)
			continue
		}
		replaced = append(replaced, window[i])
		i++
	}
	replaced = append(replaced, window[i:]...)

	if growth := len(replaced) - len(window); growth > 0 && growth > b.maxCapacity-b.Len() {
		return capacityExceeded(op, "replacement would grow the sequence past max capacity %d", b.maxCapacity)
	}

	if len(replaced) == len(window) {
		for j, v := range replaced {
			if err := b.Set(startIndex+j, v); err != nil {
				return err
			}
		}
		return nil
	}

	tail, err := b.ToArrayRange(startIndex+count, b.Len()-(startIndex+count))
	if err != nil {
		return err
	}
	if err := b.SetLen(startIndex); err != nil {
		return err
	}
	if err := b.AppendSlice(replaced); err != nil {
		return err
	}
	return b.AppendSlice(tail)
}

// subsequenceMatches reports whether pattern occurs in s starting at i,
// returning false at the first mismatching element.
func subsequenceMatches[T comparable](s []T, i int, pattern []T) bool {
	for j, p := range pattern {
		if s[i+j] != p {
			return false
		}
	}
	return true
}

// ReplaceValue walks [startIndex, startIndex+count) one element at a time,
// overwriting every element equal to oldValue with newValue.
func (b *ChunkedValueBuilder[T]) ReplaceValue(oldValue, newValue T, startIndex, count int) error {
	const op = "ChunkedValueBuilder.ReplaceValue"
	if startIndex < 0 || count < 0 || startIndex+count > b.Len() {
		return invalidArgument(op, "range [%d:+%d] out of range for length %d", startIndex, count, b.Len())
	}
	for i := startIndex; i < startIndex+count; i++ {
		v, err := b.At(i)
		if err != nil {
			return err
		}
		if v == oldValue {
			if err := b.Set(i, newValue); err != nil {
				return err
			}
		}
	}
	return nil
}
