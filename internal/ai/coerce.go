package ai

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StripCodeFence removes an optional ```json fence around a collaborator
// response and any prose before the first object.
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// coerceScore rounds v and clamps it to [0,100]. ok is false when v is not numeric.
func coerceScore(v any) (int, bool) {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	// clamp before converting: int of a huge float is undefined
	return int(math.Round(math.Max(0, math.Min(100, f)))), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
