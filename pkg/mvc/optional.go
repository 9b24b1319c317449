package mvc

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Optional holds a value that may be absent. Binding an absent parameter
// to an Optional yields None instead of an error.
type Optional[T any] struct {
	value   T
	present bool
}

// Some wraps a present value
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an empty Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the value or def when absent
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// MarshalJSON encodes the value, or null when absent
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as None
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// optional lets the converter see through Optional without knowing T
type optional interface {
	optionalElem() reflect.Type
	optionalOf(v reflect.Value) any
}

func (Optional[T]) optionalElem() reflect.Type {
	return reflect.TypeFor[T]()
}

func (Optional[T]) optionalOf(v reflect.Value) any {
	return Some(v.Interface().(T))
}
