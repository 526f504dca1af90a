// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"fmt"
	"math"
)

// Result converters for values returned by Transport calls. Bridges
// differ in integer width, so every numeric kind is accepted.

func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", value)
}

func asFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int, int32, int64, uint64:
		i, err := asInt(v)
		return float64(i), err
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}

func asBool(value any) (bool, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", value)
}

func asString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("expected a string, got %T", value)
}

// asRef converts an object result. A nil result (Java null) yields
// an empty reference.
func asRef(value any) (ObjectRef, error) {
	switch v := value.(type) {
	case ObjectRef:
		return v, nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("expected an object reference, got %T", value)
}

func asRefs(value any) ([]ObjectRef, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []ObjectRef:
		return v, nil
	case []any:
		refs := make([]ObjectRef, 0, len(v))
		for _, item := range v {
			ref, err := asRef(item)
			if err != nil {
				return nil, err
			}
			if ref != "" {
				refs = append(refs, ref)
			}
		}
		return refs, nil
	}
	return nil, fmt.Errorf("expected a list of object references, got %T", value)
}
