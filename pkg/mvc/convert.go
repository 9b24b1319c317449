package mvc

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

var (
	uuidType            = reflect.TypeFor[uuid.UUID]()
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	optionalType        = reflect.TypeFor[optional]()
)

// Convert turns request strings into a T. Scalars use the first value;
// slices and map[K]struct{} sets take every value; pointers and Optional
// wrap the converted element. uuid.UUID, time.Duration and any
// encoding.TextUnmarshaler are parsed from their text form.
func Convert[T any](values []string) (T, error) {
	var out T
	v, err := convertValues(reflect.TypeFor[T](), values)
	if err != nil {
		return out, err
	}
	out, _ = v.Interface().(T)
	return out, nil
}

// As converts an arbitrary value to T: values already of type T are
// returned as is, strings go through Convert and maps are decoded into
// structs by field name (json tags apply).
func As[T any](v any) (T, error) {
	var out T
	rv, err := assignValue(reflect.TypeFor[T](), v)
	if err != nil {
		return out, err
	}
	out, _ = rv.Interface().(T)
	return out, nil
}

func convertValues(t reflect.Type, values []string) (reflect.Value, error) {
	switch {
	case t.Implements(optionalType):
		opt := reflect.Zero(t).Interface().(optional)
		if len(values) == 0 {
			return reflect.Zero(t), nil
		}
		elem, err := convertValues(opt.optionalElem(), values)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(opt.optionalOf(elem)), nil

	case t.Kind() == reflect.Pointer:
		elem, err := convertValues(t.Elem(), values)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil

	case t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8:
		out := reflect.MakeSlice(t, 0, len(values))
		for _, s := range values {
			elem, err := convertValues(t.Elem(), []string{s})
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, elem)
		}
		return out, nil

	case isSet(t):
		out := reflect.MakeMapWithSize(t, len(values))
		for _, s := range values {
			key, err := convertValues(t.Key(), []string{s})
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(key, reflect.Zero(t.Elem()))
		}
		return out, nil
	}

	if len(values) == 0 {
		return reflect.Value{}, ErrMissing
	}
	return convertString(t, values[0])
}

func convertString(t reflect.Type, s string) (reflect.Value, error) {
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
	}

	switch t {
	case uuidType:
		id, err := uuid.Parse(s)
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(id), nil
	case durationType:
		d, err := time.ParseDuration(s)
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(d), nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return fail(err)
		}
		return p.Elem(), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fail(err)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return fail(err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return fail(err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), t.Bits())
		if err != nil {
			return fail(err)
		}
		v.SetFloat(f)
	case reflect.Slice:
		v.SetBytes([]byte(s))
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return fail(fmt.Errorf("unsupported interface type"))
		}
		v.Set(reflect.ValueOf(s))
	default:
		return fail(fmt.Errorf("unsupported kind %s", t.Kind()))
	}
	return v, nil
}

func assignValue(t reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}

	switch x := v.(type) {
	case []string:
		return convertValues(t, x)
	case string:
		return convertValues(t, []string{x})
	}

	if t.Implements(optionalType) {
		opt := reflect.Zero(t).Interface().(optional)
		elem, err := assignValue(opt.optionalElem(), v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(opt.optionalOf(elem)), nil
	}
	return decode(t, v)
}

// isSet reports whether t is a map[K]struct{}
func isSet(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

// isBean reports whether t is a struct bound from a whole value map
// rather than from a single named value
func isBean(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct &&
		!t.Implements(optionalType) &&
		!reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// decode fills a new t from input with mapstructure, weakly typed so
// "42" decodes into an int field
func decode(t reflect.Type, input any) (reflect.Value, error) {
	out := reflect.New(t)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToUUIDHook,
			stringToTextHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		Result: out.Interface(),
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot decode %s: %w", t, err)
	}
	return out.Elem(), nil
}

func stringToUUIDHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != uuidType {
		return data, nil
	}
	return uuid.Parse(reflect.ValueOf(data).String())
}

func stringToTextHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to == uuidType || !reflect.PointerTo(to).Implements(textUnmarshalerType) {
		return data, nil
	}
	v, err := convertString(to, reflect.ValueOf(data).String())
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// flatten turns multi-valued request maps into decoder input: single
// values become strings, repeated ones stay slices
func flatten(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			out[k] = v[0]
		default:
			out[k] = v
		}
	}
	return out
}
