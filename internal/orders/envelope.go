package orders

import (
	"bytes"
	"encoding/json"
	"errors"
)

type listMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// unwrapList pulls the order array out of whichever envelope upstream sent:
// {data:{data,meta}}, {data,meta}, or a bare array.
func unwrapList(raw json.RawMessage) (json.RawMessage, *listMeta, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil, errors.New("empty response body")
	}
	if trimmed[0] == '[' {
		return trimmed, nil, nil
	}

	var outer struct {
		Data json.RawMessage `json:"data"`
		Meta *listMeta       `json:"meta"`
	}
	if err := json.Unmarshal(trimmed, &outer); err != nil {
		return nil, nil, err
	}
	inner := bytes.TrimSpace(outer.Data)
	if len(inner) == 0 {
		return nil, nil, errors.New("missing data field")
	}
	if inner[0] == '[' {
		return inner, outer.Meta, nil
	}

	var nested struct {
		Data json.RawMessage `json:"data"`
		Meta *listMeta       `json:"meta"`
	}
	if err := json.Unmarshal(inner, &nested); err != nil {
		return nil, nil, err
	}
	items := bytes.TrimSpace(nested.Data)
	if len(items) == 0 || items[0] != '[' {
		return nil, nil, errors.New("unrecognized list envelope")
	}
	meta := nested.Meta
	if meta == nil {
		meta = outer.Meta
	}
	return items, meta, nil
}

// unwrapObject decodes a single record, tolerating a {data:...} wrapper.
func unwrapObject(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err == nil && len(bytes.TrimSpace(wrapped.Data)) > 0 {
		trimmed = bytes.TrimSpace(wrapped.Data)
	}
	return json.Unmarshal(trimmed, out)
}
