package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt64 converts loosely typed values (decoded JSON numbers, strings, native ints)
// to int64. The second return value is false when the value cannot be read as an integer.
func ToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case float32:
		return ToInt64(float64(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return ToInt64(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	case []byte:
		return ToInt64(string(v))
	default:
		return 0, false
	}
}

// ToString converts scalar values to string.
// Maps, slices and nil are rejected so nested objects are never flattened into text.
func ToString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case json.Number:
		return v.String(), true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) (bool, bool) {
	switch v := val.(type) {
	case bool:
		return v, true
	case int, int64, int32, uint, uint32, uint64, float64, float32, json.Number:
		i, ok := ToInt64(v)
		return i == 1, ok
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}
