package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelopeShape identifies which of the historical response wrappings the
// upstream used for a listing. The API has shipped three over time and the
// client must accept all of them.
type envelopeShape int

const (
	shapeNested envelopeShape = iota // {data:{data:[...],meta:{...}}}
	shapeFlat                        // {data:[...],meta:{...}}
	shapeBare                        // [...]
)

// listEnvelope is the normalized view of any of the three shapes.
type listEnvelope struct {
	shape envelopeShape
	items json.RawMessage
	meta  *PageMeta
}

type wrapped struct {
	Data json.RawMessage `json:"data"`
	Meta *PageMeta       `json:"meta"`
}

// decodeListEnvelope classifies the raw body into exactly one envelope shape.
// Anything that is neither a wrapping object nor an array is rejected at the
// boundary rather than propagated inward.
func decodeListEnvelope(raw []byte) (listEnvelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return listEnvelope{}, fmt.Errorf("empty listing body")
	}

	if trimmed[0] == '[' {
		return listEnvelope{shape: shapeBare, items: trimmed}, nil
	}

	var outer wrapped
	if err := json.Unmarshal(trimmed, &outer); err != nil {
		return listEnvelope{}, fmt.Errorf("unrecognized listing envelope: %w", err)
	}
	if len(outer.Data) == 0 {
		return listEnvelope{}, fmt.Errorf("listing envelope missing data")
	}

	inner := bytes.TrimSpace(outer.Data)
	if inner[0] == '[' {
		return listEnvelope{shape: shapeFlat, items: inner, meta: outer.Meta}, nil
	}

	var nested wrapped
	if err := json.Unmarshal(inner, &nested); err != nil {
		return listEnvelope{}, fmt.Errorf("unrecognized nested envelope: %w", err)
	}
	nestedItems := bytes.TrimSpace(nested.Data)
	if len(nestedItems) == 0 || nestedItems[0] != '[' {
		return listEnvelope{}, fmt.Errorf("nested envelope carries no item array")
	}

	meta := nested.Meta
	if meta == nil {
		meta = outer.Meta
	}
	return listEnvelope{shape: shapeNested, items: nestedItems, meta: meta}, nil
}

// decodeSingle unwraps {data: obj} or accepts a bare object.
func decodeSingle(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty record body")
	}

	var outer wrapped
	if err := json.Unmarshal(trimmed, &outer); err == nil && len(outer.Data) > 0 {
		inner := bytes.TrimSpace(outer.Data)
		if len(inner) > 0 && inner[0] == '{' {
			return json.Unmarshal(inner, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}
