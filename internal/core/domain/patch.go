package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field. Set is true when the key was present in the
// request body, Null when it was present as an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Changes maps column names to the values an update writes.
type Changes map[string]any

// Has reports whether col is part of the update.
func (c Changes) Has(col string) bool {
	_, ok := c[col]
	return ok
}

// setRequired applies o to a NOT NULL column. An explicit null is rejected.
func setRequired[T any](c Changes, col string, o Optional[T]) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return Invalid("%s cannot be null", col)
	}
	c[col] = o.Value
	return nil
}

// setNullable applies o to a nullable column; an explicit null clears it.
func setNullable[T any](c Changes, col string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Null {
		c[col] = nil
		return
	}
	c[col] = o.Value
}

// patchBuilder accumulates changes and the first validation failure.
type patchBuilder struct {
	changes Changes
	err     error
}

func newPatch() *patchBuilder {
	return &patchBuilder{changes: Changes{}}
}

func required[T any](b *patchBuilder, col string, o Optional[T]) {
	if b.err != nil {
		return
	}
	b.err = setRequired(b.changes, col, o)
}

func nullable[T any](b *patchBuilder, col string, o Optional[T]) {
	setNullable(b.changes, col, o)
}

func (b *patchBuilder) result() (Changes, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.changes, nil
}
