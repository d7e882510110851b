package main

import (
	"encoding/json"
	"io"
	"slices"
)

// decodeRecords reads one JSON document of records.
// Integers decode as int64 and other numbers as float64. A numeric array under
// one of vectorFields becomes []float32; other all-integer arrays become []int64.
func decodeRecords(r io.Reader, vectorFields ...string) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return convertJSON(v, vectorFields), nil
}

func convertJSON(v any, vectorFields []string) any {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			if arr, ok := elem.([]any); ok && slices.Contains(vectorFields, k) {
				if vec, ok := floatVector(arr); ok {
					val[k] = vec
					continue
				}
			}
			val[k] = convertJSON(elem, vectorFields)
		}
		return val
	case []any:
		if ints, ok := intArray(val); ok {
			return ints
		}
		for i, elem := range val {
			val[i] = convertJSON(elem, vectorFields)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}

func floatVector(values []any) ([]float32, bool) {
	if len(values) == 0 {
		return nil, false
	}
	vec := make([]float32, len(values))
	for i, elem := range values {
		n, ok := elem.(json.Number)
		if !ok {
			return nil, false
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		vec[i] = float32(f)
	}
	return vec, true
}

func intArray(values []any) ([]int64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	ints := make([]int64, len(values))
	for i, elem := range values {
		n, ok := elem.(json.Number)
		if !ok {
			return nil, false
		}
		v, err := n.Int64()
		if err != nil {
			return nil, false
		}
		ints[i] = v
	}
	return ints, true
}
