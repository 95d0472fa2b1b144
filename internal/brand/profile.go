package brand

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default values substituted for missing or falsy profile fields.
const (
	DefaultStoreName = "本日のお店"
	DefaultCategory  = "飲食店"
	DefaultTarget    = "想定しているお客様"
	DefaultGoal      = "来店数の増加"
	DefaultConcept   = "お店の世界観"
	DefaultMenuText  = ""
	DefaultFreeNote  = ""
)

// ErrNullProfile is returned for a body that is the JSON literal null, which
// has no fields to read defaults from.
var ErrNullProfile = errors.New("profile body is null")

// StoreProfile is the resolved business profile of one request.
type StoreProfile struct {
	StoreName string `json:"storeName"`
	Category  string `json:"category"`
	Target    string `json:"target"`
	Goal      string `json:"goal"`
	Concept   string `json:"concept"`
	MenuText  string `json:"menuText"`
	FreeNote  string `json:"freeNote"`
}

// DefaultProfile returns a profile with every field at its default.
func DefaultProfile() StoreProfile {
	return StoreProfile{
		StoreName: DefaultStoreName,
		Category:  DefaultCategory,
		Target:    DefaultTarget,
		Goal:      DefaultGoal,
		Concept:   DefaultConcept,
		MenuText:  DefaultMenuText,
		FreeNote:  DefaultFreeNote,
	}
}

// DecodeProfile parses a request body and applies defaults. Bodies that are
// valid JSON but not an object (arrays, strings, numbers, booleans) carry no
// profile fields and resolve to DefaultProfile. Empty strings, 0, false and
// null count as absent; other values are rendered the way string
// interpolation would render them.
func DecodeProfile(body []byte) (StoreProfile, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return StoreProfile{}, fmt.Errorf("decode profile: %w", err)
	}

	doc = bytes.TrimSpace(doc)
	switch doc[0] {
	case 'n':
		return StoreProfile{}, ErrNullProfile
	case '{':
	default:
		return DefaultProfile(), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return StoreProfile{}, fmt.Errorf("decode profile: %w", err)
	}

	p := DefaultProfile()
	resolve(fields, "storeName", &p.StoreName)
	resolve(fields, "category", &p.Category)
	resolve(fields, "target", &p.Target)
	resolve(fields, "goal", &p.Goal)
	resolve(fields, "concept", &p.Concept)
	resolve(fields, "menuText", &p.MenuText)
	resolve(fields, "freeNote", &p.FreeNote)

	return p, nil
}

func resolve(fields map[string]json.RawMessage, key string, dst *string) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	if value, ok := truthyText(raw); ok {
		*dst = value
	}
}

// truthyText renders raw as prompt text, reporting false for falsy values.
func truthyText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case 'n', 'f':
		return "", false
	case '{', '[', 't':
		return interpolate(raw), true
	default:
		n, ok := parseNumber(raw)
		if !ok || n == 0 {
			return "", false
		}
		return formatNumber(n), true
	}
}

// interpolate renders a JSON value as text: arrays are joined with commas,
// null inside an array is empty and objects become "[object Object]".
func interpolate(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		_ = json.Unmarshal(raw, &s)
		return s
	case 'n':
		return ""
	case 't':
		return "true"
	case 'f':
		return "false"
	case '{':
		return "[object Object]"
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ""
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = interpolate(item)
		}
		return strings.Join(parts, ",")
	default:
		n, _ := parseNumber(raw)
		return formatNumber(n)
	}
}

// parseNumber accepts out-of-range literals, which become ±Inf.
func parseNumber(raw json.RawMessage) (float64, bool) {
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// formatNumber prints n in the shortest round-tripping form, switching to
// exponent notation outside [1e-6, 1e21).
func formatNumber(n float64) string {
	switch {
	case n == 0:
		return "0"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}

	if abs := math.Abs(n); abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(n, 'e', -1, 64), "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
