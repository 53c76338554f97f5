// Package recordcursor adapts a sequence of key→value records to a
// column-oriented cursor: metadata discovery plus ordinal/name value
// lookup. It is a thin adapter over ordinary slice and map operations, not
// a columnar engine — callers that need real storage or query pushdown
// should look elsewhere.
package recordcursor

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sylvaingir/chunkseq"
)

// ColumnMetadata describes one column a Cursor exposes.
type ColumnMetadata struct {
	Name    string
	Ordinal int
	Type    reflect.Type
}

// Record is one row, keyed by column name.
type Record map[string]interface{}

// Cursor walks a sequence of records one at a time, exposing column
// metadata and per-column value lookup by ordinal or name.
type Cursor interface {
	// Columns returns the cursor's column metadata in ordinal order.
	Columns() []ColumnMetadata
	// Next advances to the next record, returning false once exhausted.
	Next() bool
	// ValueByOrdinal returns the current record's value for the column at
	// the given ordinal.
	ValueByOrdinal(ordinal int) (interface{}, error)
	// ValueByName returns the current record's value for the named
	// column.
	ValueByName(name string) (interface{}, error)
}

// SliceCursor is a reference Cursor backed by an in-memory slice of
// records. It exists to give the Cursor interface something concrete to
// compile and test against.
type SliceCursor struct {
	columns []ColumnMetadata
	records []Record
	pos     int
}

// NewSliceCursor constructs a cursor over records using the given column
// schema. Columns are looked up by Name against each record's map keys;
// a record missing a key simply yields a nil value for that column.
func NewSliceCursor(columns []ColumnMetadata, records []Record) *SliceCursor {
	return &SliceCursor{columns: columns, records: records, pos: -1}
}

func (c *SliceCursor) Columns() []ColumnMetadata { return c.columns }

// Next advances the cursor. The cursor starts positioned before the first
// record, matching the conventional "call Next before the first read"
// cursor contract.
func (c *SliceCursor) Next() bool {
	if c.pos+1 >= len(c.records) {
		return false
	}
	c.pos++
	chunkseq.Log.WithFields(logrus.Fields{"position": c.pos}).Trace("cursor advanced")
	return true
}

func (c *SliceCursor) current() (Record, error) {
	const op = "SliceCursor.current"
	if c.pos < 0 || c.pos >= len(c.records) {
		return nil, &chunkseq.Error{Kind: chunkseq.InvalidState, Op: op, Err: errors.New("cursor is not positioned on a record")}
	}
	return c.records[c.pos], nil
}

// ValueByOrdinal returns the current record's value for the column at
// ordinal.
func (c *SliceCursor) ValueByOrdinal(ordinal int) (interface{}, error) {
	const op = "SliceCursor.ValueByOrdinal"
	if ordinal < 0 || ordinal >= len(c.columns) {
		return nil, &chunkseq.Error{Kind: chunkseq.OutOfRange, Op: op, Err: errors.Errorf("ordinal %d out of range for %d columns", ordinal, len(c.columns))}
	}
	rec, err := c.current()
	if err != nil {
		return nil, err
	}
	return rec[c.columns[ordinal].Name], nil
}

// ValueByName returns the current record's value for the named column.
func (c *SliceCursor) ValueByName(name string) (interface{}, error) {
	const op = "SliceCursor.ValueByName"
	for _, col := range c.columns {
		if col.Name == name {
			return c.ValueByOrdinal(col.Ordinal)
		}
	}
	return nil, &chunkseq.Error{Kind: chunkseq.InvalidArgument, Op: op, Err: errors.Errorf("unknown column %q", name)}
}

// ReadBytes would support random-access byte-buffer column access; this
// reference cursor has no binary column type to back it, so it always
// reports Unsupported.
func (c *SliceCursor) ReadBytes(ordinal int, buffer []byte, bufferOffset int) (int, error) {
	const op = "SliceCursor.ReadBytes"
	return 0, &chunkseq.Error{Kind: chunkseq.Unsupported, Op: op, Err: errors.New("random-access byte-buffer column access is not supported")}
}
