// Package chunkseq provides a chunked, append-optimized, index-accessible
// mutable sequence of fixed-size values (ChunkedValueBuilder), an optional
// skip-list overlay that accelerates index lookups at large chunk counts
// (SkipIndex), and a random-access byte stream facade over a builder of
// bytes (ChunkedByteStream).
//
// The sequence is stored as a reverse-linked chain of fixed-capacity array
// chunks: the caller-visible head chunk is the logical tail of the sequence
// and the only chunk with slack; every earlier chunk is full. Appending
// writes into the head with no pointer chasing; growth promotes the head
// into a frozen, immutable-length node and allocates a fresh head.
package chunkseq
