package project

import (
	"bytes"
	"encoding/json"
	"fmt"

	"arcai/internal/jsonutil"
)

// Cell is one table value. The API mixes numbers, strings, booleans and null
// within a column, so a cell keeps the exact JSON it arrived as and writes it
// back unchanged.
type Cell struct {
	raw json.RawMessage
}

// CellOf encodes v as a cell. Values that cannot be encoded become null.
func CellOf(v any) Cell {
	raw, err := json.Marshal(v)
	if err != nil {
		return Cell{}
	}
	return Cell{raw: raw}
}

// UnmarshalJSON accepts any JSON value.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("cell: invalid JSON %q", data)
	}
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the cell's original JSON.
func (c Cell) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// String renders the cell for display. Null is empty; numbers keep the
// digits they were sent with.
func (c Cell) String() string {
	v, ok := c.decode()
	if !ok {
		return ""
	}
	return jsonutil.ToString(v)
}

// Float returns the cell's value if it is a JSON number. Numeric text in a
// string is not a number.
func (c Cell) Float() (float64, bool) {
	v, ok := c.decode()
	if !ok {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

func (c Cell) decode() (interface{}, bool) {
	if jsonutil.IsNull(c.raw) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(c.raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
