package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ddsnap/ddsnap/pkg/util"
)

// Writer persists resource payloads as pretty-printed JSON files under
// an org directory.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at the org directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Root returns the org directory this writer targets.
func (w *Writer) Root() string {
	return w.root
}

// ResourceFileName builds the canonical file name for a resource:
// <id>_<slug>.json, with "unknown" standing in for a missing id and
// the kind name for an empty label.
func ResourceFileName(id, label, fallback string) string {
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("%s_%s.json", id, util.Slugify(label, fallback))
}

// WriteResource writes one resource payload under <root>/<subdir>,
// creating the directory as needed. Returns the written path.
func (w *Writer) WriteResource(subdir, filename string, payload []byte) (string, error) {
	dir := filepath.Join(w.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, indentJSON(payload), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// indentJSON pretty-prints a JSON payload. Payloads that do not parse
// are written unchanged; the export is a passthrough, not a validator.
func indentJSON(payload []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return payload
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
