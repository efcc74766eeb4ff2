package export

import (
	"fmt"

	"github.com/ddsnap/ddsnap/pkg/datadog"
)

// fetchMonitors pages through all monitors and writes one file each.
func (e *Exporter) fetchMonitors() (int, error) {
	total := 0
	page := 0
	for {
		items, err := e.api.ListMonitors(page, pageSize)
		if err != nil {
			return total, err
		}
		for _, item := range items {
			// Unnamed monitors are labeled monitor-<id>.
			if _, err := e.writeItem(KindMonitors, item, "monitor-"+item.ID()); err != nil {
				e.log.Warn("skipping monitor", "id", item.ID(), "error", err)
				continue
			}
			total++
		}
		if len(items) < pageSize {
			return total, nil
		}
		page++
	}
}

// fetchDashboards lists dashboard summaries and fetches the full
// definition per id; the summary only carries layout metadata.
func (e *Exporter) fetchDashboards() (int, error) {
	summaries, err := e.api.ListDashboards()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, summary := range summaries {
		id := summary.ID()
		if id == "" {
			continue
		}
		full, err := e.api.GetDashboard(id)
		if err != nil {
			e.log.Warn("skipping dashboard", "id", id, "error", err)
			continue
		}
		name := ResourceFileName(id, summary.Label("dashboard"), "dashboard")
		if _, err := e.writer.WriteResource(string(KindDashboards), name, full); err != nil {
			e.log.Warn("skipping dashboard", "id", id, "error", err)
			continue
		}
		total++
	}
	return total, nil
}

// fetchNotebooks lists notebooks and fetches each full payload.
func (e *Exporter) fetchNotebooks() (int, error) {
	items, err := e.api.ListNotebooks()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		id := item.ID()
		if id == "" {
			continue
		}
		full, err := e.api.GetNotebook(id)
		if err != nil {
			e.log.Warn("skipping notebook", "id", id, "error", err)
			continue
		}
		name := ResourceFileName(id, item.Label("notebook"), "notebook")
		if _, err := e.writer.WriteResource(string(KindNotebooks), name, full); err != nil {
			e.log.Warn("skipping notebook", "id", id, "error", err)
			continue
		}
		total++
	}
	return total, nil
}

// fetchRoles pages through all roles.
func (e *Exporter) fetchRoles() (int, error) {
	return e.fetchV2Pages(KindRoles, "role", e.api.ListRoles)
}

// fetchUsers pages through all users. File labels prefer the user's
// name, then email.
func (e *Exporter) fetchUsers() (int, error) {
	return e.fetchV2Pages(KindUsers, "user", e.api.ListUsers)
}

// fetchTeams exports all teams and fills the shared team cache.
func (e *Exporter) fetchTeams() (int, error) {
	teams, err := e.ensureTeams()
	if err != nil {
		return 0, err
	}
	return len(teams), nil
}

// fetchOnCall exports per-team routing rules and current on-call
// responders. Teams without on-call configured are expected; each side
// is best-effort per team.
func (e *Exporter) fetchOnCall() (int, error) {
	teams, err := e.ensureTeams()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, team := range teams {
		slugged := ResourceFileName(team.ID, team.Name, "team")

		rules, err := e.api.GetTeamRoutingRules(team.ID)
		if err != nil {
			e.log.Warn("on-call routing rules unavailable", "team", team.ID, "error", err)
		} else {
			name := "team-routing-rules_" + slugged
			if _, err := e.writer.WriteResource(string(KindOnCall), name, rules); err != nil {
				e.log.Warn("skipping routing rules", "team", team.ID, "error", err)
			} else {
				total++
			}
		}

		users, err := e.api.GetTeamOnCallUsers(team.ID)
		if err != nil {
			e.log.Warn("on-call users unavailable", "team", team.ID, "error", err)
			continue
		}
		name := "team-oncall-users_" + slugged
		if _, err := e.writer.WriteResource(string(KindOnCall), name, users); err != nil {
			e.log.Warn("skipping on-call users", "team", team.ID, "error", err)
			continue
		}
		total++
	}
	return total, nil
}

// fetchTags writes the org-wide host tag mapping as one snapshot file.
func (e *Exporter) fetchTags() (int, error) {
	payload, err := e.api.ListHostTags()
	if err != nil {
		return 0, err
	}
	name := fmt.Sprintf("all_host_tags_%s.json", e.stamp)
	if _, err := e.writer.WriteResource(string(KindTags), name, payload); err != nil {
		return 0, err
	}
	return 1, nil
}

// fetchSLOs exports all service level objectives.
func (e *Exporter) fetchSLOs() (int, error) {
	items, err := e.api.SearchSLOs()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		if _, err := e.writeItem(KindSLOs, item, "slo"); err != nil {
			e.log.Warn("skipping slo", "id", item.ID(), "error", err)
			continue
		}
		total++
	}
	return total, nil
}

// fetchSoftwareCatalog exports all software catalog entities.
func (e *Exporter) fetchSoftwareCatalog() (int, error) {
	items, err := e.api.ListCatalogEntities()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		if _, err := e.writeItem(KindSoftwareCatalog, item, "entity"); err != nil {
			e.log.Warn("skipping catalog entity", "id", item.ID(), "error", err)
			continue
		}
		total++
	}
	return total, nil
}

// fetchV2Pages walks a page[number]-paginated v2 collection, writing
// every item.
func (e *Exporter) fetchV2Pages(kind Kind, fallback string, list func(pageNumber, pageSize int) ([]datadog.Item, error)) (int, error) {
	total := 0
	page := 0
	for {
		items, err := list(page, pageSize)
		if err != nil {
			return total, err
		}
		for _, item := range items {
			if _, err := e.writeItem(kind, item, fallback); err != nil {
				e.log.Warn("skipping "+fallback, "id", item.ID(), "error", err)
				continue
			}
			total++
		}
		if len(items) < pageSize {
			return total, nil
		}
		page++
	}
}
