package actions

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type argReader struct {
	action string
	args   map[string]any
}

func (a argReader) fail(arg, reason string) error {
	return &ArgError{Action: a.action, Arg: arg, Reason: reason}
}

func (a argReader) optionalString(key string) (string, error) {
	raw, ok := a.args[key]
	if !ok || raw == nil {
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64, int, int64, json.Number, bool:
		return strings.TrimSpace(fmt.Sprint(v)), nil
	default:
		return "", a.fail(key, "must be a string")
	}
}

func (a argReader) requiredString(key string) (string, error) {
	value, err := a.optionalString(key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", a.fail(key, "is required")
	}
	return value, nil
}

func (a argReader) nonNegativeInt(key string) (int, error) {
	raw, ok := a.args[key]
	if !ok || raw == nil {
		return 0, a.fail(key, "is required")
	}

	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, a.fail(key, "must be an integer")
		}
		n = f
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, a.fail(key, "must be an integer")
		}
		n = float64(parsed)
	default:
		return 0, a.fail(key, "must be an integer")
	}

	if n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, a.fail(key, "must be an integer")
	}
	if n < 0 {
		return 0, a.fail(key, "must not be negative")
	}
	return int(n), nil
}

// stringList accepts a JSON array of strings or a single comma-separated
// string.
func (a argReader) stringList(key string) ([]string, error) {
	raw, ok := a.args[key]
	if !ok || raw == nil {
		return nil, a.fail(key, "is required")
	}

	var items []string
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			switch s := item.(type) {
			case string:
				items = append(items, s)
			case nil:
			default:
				items = append(items, fmt.Sprint(s))
			}
		}
	case []string:
		items = append(items, v...)
	case string:
		items = strings.Split(v, ",")
	default:
		return nil, a.fail(key, "must be a list of strings")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, a.fail(key, "must not be empty")
	}
	return out, nil
}
