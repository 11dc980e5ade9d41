package results

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/coursematch/internal/adaptive"
)

// DefaultScore is used when a recommendation carries no usable score.
const DefaultScore = 75.0

// ResolveScore picks the score of a recommendation from the first populated
// field in order compatibility_score, match_percentage, match_score, score,
// and normalizes it to 0–100. It never returns NaN or ±Inf.
func ResolveScore(rec adaptive.Recommendation) float64 {
	for _, raw := range []json.RawMessage{
		rec.CompatibilityScore,
		rec.MatchPercentage,
		rec.MatchScore,
		rec.Score,
	} {
		if !isAbsent(raw) {
			return Normalize(raw)
		}
	}
	return DefaultScore
}

// Normalize converts a single raw score value to 0–100, falling back to
// DefaultScore when it is absent or unusable.
func Normalize(raw json.RawMessage) float64 {
	if isAbsent(raw) {
		return DefaultScore
	}
	v, ok := parseNumber(raw)
	if !ok {
		return DefaultScore
	}
	return clamp(v)
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// parseNumber accepts a JSON number or a string holding one, optionally
// suffixed with "%".
func parseNumber(raw json.RawMessage) (float64, bool) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}

	var f float64
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(x)
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// parseGWA reads the optional minimum GWA. Numbers and numeric strings are
// accepted; anything else yields nil.
func parseGWA(raw json.RawMessage) *float64 {
	if isAbsent(raw) {
		return nil
	}
	v, ok := parseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}
