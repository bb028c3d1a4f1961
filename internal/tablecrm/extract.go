package tablecrm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"order-desk/internal/core"
)

// shape is how a TableCRM response wraps its payload.
type shape int

const (
	shapeRaw shape = iota
	shapeResult
	shapeData
)

func (s shape) String() string {
	switch s {
	case shapeResult:
		return "result"
	case shapeData:
		return "data"
	}
	return "raw"
}

// envelope is a classified response body.
type envelope struct {
	shape shape
	body  json.RawMessage
}

// classifyList resolves the payload of a list response in fixed priority:
// an object's "result" array, then an object's "data" field, then the raw body.
func classifyList(body []byte) envelope {
	if obj, ok := asObject(body); ok {
		if r, ok := obj["result"]; ok && isArray(r) {
			return envelope{shape: shapeResult, body: r}
		}
		if d, ok := obj["data"]; ok {
			return envelope{shape: shapeData, body: d}
		}
	}
	return envelope{shape: shapeRaw, body: body}
}

// classifyOne resolves a single-object response: "result", then "data", then raw.
func classifyOne(body []byte) envelope {
	if obj, ok := asObject(body); ok {
		if r, ok := obj["result"]; ok {
			return envelope{shape: shapeResult, body: r}
		}
		if d, ok := obj["data"]; ok {
			return envelope{shape: shapeData, body: d}
		}
	}
	return envelope{shape: shapeRaw, body: body}
}

// decodeList extracts a list. Payloads that are not arrays yield an empty list.
func decodeList[T any](body []byte) ([]T, error) {
	env := classifyList(body)
	out := []T{}
	if !isArray(env.body) {
		return out, nil
	}
	if err := json.Unmarshal(env.body, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding %s list: %v", core.ErrNetwork, env.shape, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeOne[T any](body []byte) (*T, error) {
	env := classifyOne(body)
	var out T
	if err := json.Unmarshal(env.body, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding %s object: %v", core.ErrNetwork, env.shape, err)
	}
	return &out, nil
}

func asObject(body []byte) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
