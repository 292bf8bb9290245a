package database

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// Patch is a tri-state field update decoded from JSON: an absent key leaves
// the column alone, null clears it, and a value sets it.
type Patch[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

func Clear[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p Patch[T]) applyPtr(dst **T) {
	if p.Set {
		*dst = p.Value
	}
}

// applyValue ignores a null for columns that cannot be cleared.
func (p Patch[T]) applyValue(dst *T) {
	if p.Set && p.Value != nil {
		*dst = *p.Value
	}
}

func applyJSON(p Patch[datatypes.JSON], dst *datatypes.JSON) {
	if !p.Set {
		return
	}
	if p.Value == nil {
		*dst = nil
		return
	}
	*dst = *p.Value
}
