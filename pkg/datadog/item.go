package datadog

import (
	"encoding/json"
	"strconv"
)

// Item is a single resource from a list response. The raw payload is
// preserved byte-for-byte for export; id and label lookups tolerate the
// shape differences between v1 responses (flat objects) and v2
// responses (id/type/attributes envelopes).
type Item struct {
	raw    json.RawMessage
	fields map[string]any
}

// UnmarshalJSON keeps the raw message and decodes the top level for id
// and label lookups. Non-object entries are kept raw with no fields.
func (it *Item) UnmarshalJSON(data []byte) error {
	it.raw = append(json.RawMessage(nil), data...)
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		it.fields = m
	}
	return nil
}

// MarshalJSON round-trips the original payload.
func (it Item) MarshalJSON() ([]byte, error) {
	if it.raw == nil {
		return []byte("null"), nil
	}
	return it.raw, nil
}

// Raw returns the original payload.
func (it Item) Raw() json.RawMessage {
	return it.raw
}

// ID returns the item id as a string. Numeric ids (monitors) are
// rendered without an exponent or fraction. Returns "" when absent.
func (it Item) ID() string {
	return stringify(it.fields["id"])
}

// Label returns a human-readable name for the item: top-level name or
// title, then attributes.name, attributes.title, attributes.handle, or
// attributes.email. Returns fallback when nothing matches.
func (it Item) Label(fallback string) string {
	for _, key := range []string{"name", "title"} {
		if s, ok := it.fields[key].(string); ok && s != "" {
			return s
		}
	}
	if attrs, ok := it.fields["attributes"].(map[string]any); ok {
		for _, key := range []string{"name", "title", "handle", "email"} {
			if s, ok := attrs[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return fallback
}

// Attribute returns a string attribute by name, looking at the top
// level first and then under "attributes".
func (it Item) Attribute(key string) string {
	if s, ok := it.fields[key].(string); ok {
		return s
	}
	if attrs, ok := it.fields["attributes"].(map[string]any); ok {
		if s, ok := attrs[key].(string); ok {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode to float64; ids are integral.
		return strconv.FormatInt(int64(t), 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
