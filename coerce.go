package doguda

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// coerceValue converts a caller-supplied value to the declared parameter
// type. Values arriving from a JSON request body carry their decoded shapes -
// numbers are float64, objects are map[string]any - so a direct assignability
// check is not enough.
func coerceValue(raw any, t reflect.Type) (reflect.Value, error) {
	if raw == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("null is not a valid %v", t)
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if isNumericKind(rv.Kind()) && isNumericKind(t.Kind()) {
		if isFloatKind(rv.Kind()) && !isFloatKind(t.Kind()) {
			f := rv.Float()
			if f != math.Trunc(f) {
				return reflect.Value{}, fmt.Errorf("%v is not a valid %v", raw, t)
			}
		}
		if rv.Type().ConvertibleTo(t) {
			return rv.Convert(t), nil
		}
	}

	// Fall back to a JSON round-trip. This covers map[string]any into struct
	// targets and []any into typed slices.
	data, err := json.Marshal(raw)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %v: %w", raw, t, err)
	}
	target := reflect.New(t)
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %v: %w", raw, t, err)
	}
	return target.Elem(), nil
}

// coerceString parses a CLI argument into the declared parameter type.
// Anything beyond the scalar kinds is treated as a JSON literal.
func coerceString(s string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not a valid %v", s, t)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not a valid %v", s, t)
		}
		v := reflect.New(t).Elem()
		if v.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%q overflows %v", s, t)
		}
		v.SetInt(i)
		return v, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not a valid %v", s, t)
		}
		v := reflect.New(t).Elem()
		if v.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%q overflows %v", s, t)
		}
		v.SetUint(u)
		return v, nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not a valid %v", s, t)
		}
		v := reflect.New(t).Elem()
		v.SetFloat(f)
		return v, nil
	case reflect.Pointer:
		elem, err := coerceString(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	default:
		target := reflect.New(t)
		if err := json.Unmarshal([]byte(s), target.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not valid JSON for %v: %w", s, t, err)
		}
		return target.Elem(), nil
	}
}

func isNumericKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64 && k != reflect.Uintptr
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
