package brand

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// BrandStrategy is the executive summary the model is asked to produce.
type BrandStrategy struct {
	Overview        string `json:"overview"`
	TargetInsight   string `json:"targetInsight"`
	Strength        string `json:"strength"`
	CoreMessage     string `json:"coreMessage"`
	Objective       string `json:"objective"`
	ContentStrategy string `json:"contentStrategy"`
	VisualGuide     string `json:"visualGuide"`
}

// StrategyKeys lists the BrandStrategy JSON keys in prompt order.
var StrategyKeys = jsonKeys(reflect.TypeOf(BrandStrategy{}))

func jsonKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys = append(keys, name)
	}
	return keys
}

// ParseStrategy checks that content is a JSON document and returns it
// compacted. Field presence and types are not enforced.
func ParseStrategy(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("model output is not valid JSON")
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(content)); err != nil {
		return nil, fmt.Errorf("compact model output: %w", err)
	}

	return json.RawMessage(compact.Bytes()), nil
}

// MissingKeys reports which StrategyKeys are absent from raw. A document that
// is not an object is missing all of them.
func MissingKeys(raw json.RawMessage) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return append([]string(nil), StrategyKeys...)
	}

	var missing []string
	for _, key := range StrategyKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
