// Package payload turns raw script stdout into the typed payload a card
// displays. The wire contract is a JSON object {type, data}; data fields are
// pulled out through dot-path mappings with per-type required keys.
package payload

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

type envelope struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Parse validates and maps one script run's stdout for a card. fieldMap
// overrides the default dot-path for a logical key (e.g. "value" ->
// "metrics.cpu.load"). Mapping failures identify the offending key.
func Parse(cardType model.CardType, stdout []byte, fieldMap map[string]string) (*model.Payload, error) {
	trimmed := strings.TrimSpace(string(stdout))
	if trimmed == "" {
		return nil, fmt.Errorf("empty script output")
	}

	var env envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return nil, fmt.Errorf("invalid payload JSON: %w", err)
	}
	if env.Type != string(cardType) {
		return nil, fmt.Errorf("payload type %q does not match card type %q", env.Type, cardType)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("payload has no data object")
	}

	switch cardType {
	case model.CardTypeScalar:
		return mapScalar(env.Data, fieldMap)
	case model.CardTypeSeries:
		return mapSeries(env.Data, fieldMap)
	case model.CardTypeStatus:
		return mapStatus(env.Data, fieldMap)
	case model.CardTypeGauge:
		return mapGauge(env.Data, fieldMap)
	default:
		return nil, fmt.Errorf("unsupported card type %q", cardType)
	}
}

func mapScalar(data map[string]any, fieldMap map[string]string) (*model.Payload, error) {
	value, err := requireNumber(data, fieldMap, "value")
	if err != nil {
		return nil, fmt.Errorf("scalar payload: %w", err)
	}
	return &model.Payload{
		Kind: model.CardTypeScalar,
		Scalar: &model.ScalarPayload{
			Value: value,
			Unit:  optionalString(data, fieldMap, "unit"),
			Label: optionalString(data, fieldMap, "label"),
		},
	}, nil
}

func mapSeries(data map[string]any, fieldMap map[string]string) (*model.Payload, error) {
	axisRaw, ok := lookup(data, resolvePath(fieldMap, "axis"))
	if !ok {
		return nil, fmt.Errorf("series payload: missing required key %q", resolvePath(fieldMap, "axis"))
	}
	axisList, ok := axisRaw.([]any)
	if !ok {
		return nil, fmt.Errorf("series payload: key %q must be an array", resolvePath(fieldMap, "axis"))
	}
	axis := make([]string, 0, len(axisList))
	for _, v := range axisList {
		axis = append(axis, fmt.Sprintf("%v", v))
	}

	seriesRaw, ok := lookup(data, resolvePath(fieldMap, "series"))
	if !ok {
		return nil, fmt.Errorf("series payload: missing required key %q", resolvePath(fieldMap, "series"))
	}
	seriesList, ok := seriesRaw.([]any)
	if !ok {
		return nil, fmt.Errorf("series payload: key %q must be an array", resolvePath(fieldMap, "series"))
	}

	lines := make([]model.SeriesLine, 0, len(seriesList))
	for i, item := range seriesList {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("series payload: series[%d] must be an object", i)
		}
		name, ok := obj["name"].(string)
		if !ok {
			return nil, fmt.Errorf("series payload: series[%d] missing string key %q", i, "name")
		}
		valsRaw, ok := obj["values"].([]any)
		if !ok {
			return nil, fmt.Errorf("series payload: series[%d] missing array key %q", i, "values")
		}
		values := make([]float64, 0, len(valsRaw))
		for j, v := range valsRaw {
			f, ok := asNumber(v)
			if !ok {
				return nil, fmt.Errorf("series payload: series[%d].values[%d] is not numeric", i, j)
			}
			values = append(values, f)
		}
		lines = append(lines, model.SeriesLine{Name: name, Values: values})
	}

	return &model.Payload{
		Kind:   model.CardTypeSeries,
		Series: &model.SeriesPayload{Axis: axis, Series: lines},
	}, nil
}

func mapStatus(data map[string]any, fieldMap map[string]string) (*model.Payload, error) {
	label, err := requireString(data, fieldMap, "label")
	if err != nil {
		return nil, fmt.Errorf("status payload: %w", err)
	}
	state, err := requireString(data, fieldMap, "state")
	if err != nil {
		return nil, fmt.Errorf("status payload: %w", err)
	}
	return &model.Payload{
		Kind: model.CardTypeStatus,
		Status: &model.StatusPayload{
			Label:  label,
			State:  model.AliasStatusState(state),
			Detail: optionalString(data, fieldMap, "detail"),
		},
	}, nil
}

func mapGauge(data map[string]any, fieldMap map[string]string) (*model.Payload, error) {
	min, err := requireNumber(data, fieldMap, "min")
	if err != nil {
		return nil, fmt.Errorf("gauge payload: %w", err)
	}
	max, err := requireNumber(data, fieldMap, "max")
	if err != nil {
		return nil, fmt.Errorf("gauge payload: %w", err)
	}
	value, err := requireNumber(data, fieldMap, "value")
	if err != nil {
		return nil, fmt.Errorf("gauge payload: %w", err)
	}
	if max <= min {
		return nil, fmt.Errorf("gauge payload: max (%g) must be greater than min (%g)", max, min)
	}
	return &model.Payload{
		Kind: model.CardTypeGauge,
		Gauge: &model.GaugePayload{
			Min:   min,
			Max:   max,
			Value: value,
			Unit:  optionalString(data, fieldMap, "unit"),
			Label: optionalString(data, fieldMap, "label"),
		},
	}, nil
}

// resolvePath returns the configured dot-path for a logical key, defaulting
// to the key itself.
func resolvePath(fieldMap map[string]string, key string) string {
	if fieldMap != nil {
		if path, ok := fieldMap[key]; ok && path != "" {
			return path
		}
	}
	return key
}

// lookup walks a dot path through nested objects.
func lookup(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, part := range parts {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func requireNumber(data map[string]any, fieldMap map[string]string, key string) (float64, error) {
	path := resolvePath(fieldMap, key)
	raw, ok := lookup(data, path)
	if !ok {
		return 0, fmt.Errorf("missing required key %q", path)
	}
	f, ok := asNumber(raw)
	if !ok {
		return 0, fmt.Errorf("key %q is not numeric", path)
	}
	return f, nil
}

func optionalString(data map[string]any, fieldMap map[string]string, key string) string {
	raw, ok := lookup(data, resolvePath(fieldMap, key))
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func requireString(data map[string]any, fieldMap map[string]string, key string) (string, error) {
	path := resolvePath(fieldMap, key)
	raw, ok := lookup(data, path)
	if !ok {
		return "", fmt.Errorf("missing required key %q", path)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("key %q is not a string", path)
	}
	return s, nil
}
