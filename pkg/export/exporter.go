package export

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddsnap/ddsnap/pkg/datadog"
	"github.com/ddsnap/ddsnap/pkg/logging"
)

// pageSize is the page size for paginated list endpoints.
const pageSize = 100

// Config configures an Exporter.
type Config struct {
	// API is the Datadog client to read from.
	API datadog.API
	// Root is the org directory files are written under.
	Root string
	// Org is the organization label, recorded in the manifest.
	Org string
	// Site is the short site label (us1, eu1, ...).
	Site string
	// SiteDomain is the Datadog site domain the client talks to.
	SiteDomain string
	// Logger receives per-resource progress. Defaults to a no-op
	// logger when nil.
	Logger *slog.Logger
}

// TeamRef identifies a team for the on-call and restriction policy
// fetchers.
type TeamRef struct {
	ID   string
	Name string
}

// Exporter runs export fetchers against one org and one output
// directory. It is single-use: construct, Run, inspect the manifest.
type Exporter struct {
	api    datadog.API
	writer *Writer
	log    *slog.Logger
	stamp  string

	// teams is filled once by ensureTeams and shared by the teams,
	// on_call and restriction_policies fetchers.
	teams       []TeamRef
	teamsLoaded bool

	manifest *Manifest
}

// fetcher exports one resource kind and returns the number of files
// written.
type fetcher func(*Exporter) (int, error)

// fetchers dispatches kinds to their implementation.
var fetchers = map[Kind]fetcher{
	KindMonitors:            (*Exporter).fetchMonitors,
	KindDashboards:          (*Exporter).fetchDashboards,
	KindNotebooks:           (*Exporter).fetchNotebooks,
	KindRoles:               (*Exporter).fetchRoles,
	KindUsers:               (*Exporter).fetchUsers,
	KindTeams:               (*Exporter).fetchTeams,
	KindOnCall:              (*Exporter).fetchOnCall,
	KindTags:                (*Exporter).fetchTags,
	KindSLOs:                (*Exporter).fetchSLOs,
	KindRestrictionPolicies: (*Exporter).fetchRestrictionPolicies,
	KindSoftwareCatalog:     (*Exporter).fetchSoftwareCatalog,
}

// New creates an exporter for one run.
func New(cfg Config) *Exporter {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Exporter{
		api:      cfg.API,
		writer:   NewWriter(cfg.Root),
		log:      log,
		stamp:    time.Now().Format("20060102-150405"),
		manifest: newManifest(cfg.Org, cfg.Site, cfg.SiteDomain),
	}
}

// Manifest returns the run manifest. Populated after Run.
func (e *Exporter) Manifest() *Manifest {
	return e.manifest
}

// Run exports the requested kinds in order. A kind that fails is
// recorded in the manifest and does not stop the remaining kinds; the
// joined errors are returned at the end. The manifest is written to
// the org root even when kinds failed.
func (e *Exporter) Run(kinds []Kind) error {
	var errs []error
	for _, kind := range kinds {
		fetch, ok := fetchers[kind]
		if !ok {
			e.log.Warn("unknown resource kind, skipping", "kind", kind)
			continue
		}
		e.log.Info("exporting", "kind", kind)
		count, err := fetch(e)
		e.manifest.record(kind, count, err)
		if err != nil {
			e.log.Error("export failed", "kind", kind, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		e.log.Info("exported", "kind", kind, "count", count)
	}
	e.manifest.FinishedAt = time.Now().UTC()

	if err := e.manifest.write(e.writer.Root()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ensureTeams lists all teams once, writing their files as a side
// effect, and caches (id, name) pairs for the fetchers that walk teams.
func (e *Exporter) ensureTeams() ([]TeamRef, error) {
	if e.teamsLoaded {
		return e.teams, nil
	}

	// Accumulate locally so a failed retry after a mid-pagination
	// error does not duplicate the pages already seen.
	var refs []TeamRef
	page := 0
	for {
		items, err := e.api.ListTeams(page, pageSize)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			name := item.Label("team")
			if _, err := e.writeItem(KindTeams, item, "team"); err != nil {
				e.log.Warn("skipping team", "id", item.ID(), "error", err)
				continue
			}
			if id := item.ID(); id != "" {
				refs = append(refs, TeamRef{ID: id, Name: name})
			}
		}
		if len(items) < pageSize {
			break
		}
		page++
	}
	e.teams = refs
	e.teamsLoaded = true
	return e.teams, nil
}

// writeItem persists one list item under the kind's subdirectory.
func (e *Exporter) writeItem(kind Kind, item datadog.Item, fallback string) (string, error) {
	name := ResourceFileName(item.ID(), item.Label(fallback), fallback)
	return e.writer.WriteResource(string(kind), name, item.Raw())
}
