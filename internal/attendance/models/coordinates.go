package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseCoordinate parses a textual coordinate into decimal degrees.
func ParseCoordinate(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CoerceCoordinate accepts the loose JSON encodings clients send for
// coordinates: numbers, numeric strings, or json.Number.
func CoerceCoordinate(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		return ParseCoordinate(value)
	default:
		return 0, false
	}
}
