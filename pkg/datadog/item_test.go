package datadog

import (
	"encoding/json"
	"testing"
)

func mustItem(t *testing.T, raw string) Item {
	t.Helper()
	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal item: %v", err)
	}
	return it
}

func TestItemIDNumeric(t *testing.T) {
	// Monitors carry int64 ids at the top level.
	it := mustItem(t, `{"id": 123456789012, "name": "cpu high"}`)
	if got := it.ID(); got != "123456789012" {
		t.Errorf("ID() = %q, want 123456789012", got)
	}
}

func TestItemIDString(t *testing.T) {
	it := mustItem(t, `{"id": "abc-def-123", "type": "users"}`)
	if got := it.ID(); got != "abc-def-123" {
		t.Errorf("ID() = %q, want abc-def-123", got)
	}
}

func TestItemIDMissing(t *testing.T) {
	it := mustItem(t, `{"name": "no id here"}`)
	if got := it.ID(); got != "" {
		t.Errorf("ID() = %q, want empty", got)
	}
}

func TestItemLabelTopLevel(t *testing.T) {
	it := mustItem(t, `{"id": 1, "name": "cpu high"}`)
	if got := it.Label("monitor"); got != "cpu high" {
		t.Errorf("Label() = %q, want 'cpu high'", got)
	}

	it = mustItem(t, `{"id": "d1", "title": "Service Overview"}`)
	if got := it.Label("dashboard"); got != "Service Overview" {
		t.Errorf("Label() = %q, want 'Service Overview'", got)
	}
}

func TestItemLabelFromAttributes(t *testing.T) {
	// v2 envelope shape: name lives under attributes.
	it := mustItem(t, `{"id": "t1", "type": "team", "attributes": {"name": "Platform", "handle": "platform"}}`)
	if got := it.Label("team"); got != "Platform" {
		t.Errorf("Label() = %q, want Platform", got)
	}

	// Users without a name fall through to email.
	it = mustItem(t, `{"id": "u1", "attributes": {"name": "", "email": "jo@example.com"}}`)
	if got := it.Label("user"); got != "jo@example.com" {
		t.Errorf("Label() = %q, want email", got)
	}
}

func TestItemLabelFallback(t *testing.T) {
	it := mustItem(t, `{"id": "x"}`)
	if got := it.Label("entity"); got != "entity" {
		t.Errorf("Label() = %q, want fallback", got)
	}
}

func TestItemRoundTrip(t *testing.T) {
	raw := `{"id":7,"name":"keep","nested":{"deep":[1,2,3]},"unknown_field":true}`
	it := mustItem(t, raw)

	out, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Errorf("round trip changed payload:\n got %s\nwant %s", out, raw)
	}
}

func TestItemNonObject(t *testing.T) {
	// List entries that are not objects keep their raw form.
	it := mustItem(t, `"just-a-string"`)
	if got := it.ID(); got != "" {
		t.Errorf("ID() on non-object = %q, want empty", got)
	}
	if got := it.Label("x"); got != "x" {
		t.Errorf("Label() on non-object = %q, want fallback", got)
	}
}

func TestItemAttribute(t *testing.T) {
	it := mustItem(t, `{"id": "n1", "attributes": {"title": "Week 12 incident review"}}`)
	if got := it.Attribute("title"); got != "Week 12 incident review" {
		t.Errorf("Attribute(title) = %q", got)
	}
	if got := it.Attribute("missing"); got != "" {
		t.Errorf("Attribute(missing) = %q, want empty", got)
	}
}
