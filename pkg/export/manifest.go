package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is written at the org root after every run.
const ManifestFileName = "manifest.yaml"

// Manifest summarizes one export run.
type Manifest struct {
	RunID      string                `yaml:"run_id"`
	Org        string                `yaml:"org"`
	Site       string                `yaml:"site"`
	SiteDomain string                `yaml:"site_domain"`
	StartedAt  time.Time             `yaml:"started_at"`
	FinishedAt time.Time             `yaml:"finished_at"`
	Resources  map[string]KindResult `yaml:"resources"`
}

// KindResult is the per-kind outcome of a run.
type KindResult struct {
	Count int    `yaml:"count"`
	Error string `yaml:"error,omitempty"`
}

// newManifest starts a manifest for a run.
func newManifest(org, site, siteDomain string) *Manifest {
	return &Manifest{
		RunID:      uuid.New().String(),
		Org:        org,
		Site:       site,
		SiteDomain: siteDomain,
		StartedAt:  time.Now().UTC(),
		Resources:  make(map[string]KindResult),
	}
}

// record stores the outcome for one kind.
func (m *Manifest) record(kind Kind, count int, err error) {
	result := KindResult{Count: count}
	if err != nil {
		result.Error = err.Error()
	}
	m.Resources[string(kind)] = result
}

// ErrorCount returns how many kinds finished with an error.
func (m *Manifest) ErrorCount() int {
	n := 0
	for _, r := range m.Resources {
		if r.Error != "" {
			n++
		}
	}
	return n
}

// TotalExported returns the total number of files written across kinds.
func (m *Manifest) TotalExported() int {
	n := 0
	for _, r := range m.Resources {
		n += r.Count
	}
	return n
}

// write persists the manifest at the org root.
func (m *Manifest) write(root string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(root, ManifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
