package domain

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Optional is a field of a partial update. An unset Optional is omitted from
// the request body; a set one is sent as its value, or as null when Null is
// true.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a set Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Get returns the value and whether it carries one.
func (o Optional[T]) Get() (T, bool) {
	if !o.Set || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// UnmarshalJSON sets the Optional from a present field. JSON null yields Null.
// Absent fields never reach it and stay unset.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := sonic.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func putOptional[T any](fields map[string]any, key string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Null {
		fields[key] = nil
		return
	}
	fields[key] = o.Value
}

func marshalFields(fields map[string]any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(fields)
}
