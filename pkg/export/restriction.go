package export

import (
	"github.com/ddsnap/ddsnap/pkg/datadog"
)

// restrictionPageSize is larger than the default page size because
// policies are looked up per enumerated monitor.
const restrictionPageSize = 1000

// policyTarget is one "type:id" resource a restriction policy may be
// attached to.
type policyTarget struct {
	resourceID string
	label      string
	kind       string
}

// fetchRestrictionPolicies enumerates the resources that can carry a
// restriction policy (dashboards, monitors, notebooks, SLOs, team
// routing rules) and fetches the policy for each. Most resources have
// none; a 404 is skipped silently. Enumeration of each family is
// itself best-effort so one unavailable endpoint does not hide the
// policies of the others.
func (e *Exporter) fetchRestrictionPolicies() (int, error) {
	var targets []policyTarget

	if dashboards, err := e.api.ListDashboards(); err != nil {
		e.log.Warn("restriction policies: skipping dashboards", "error", err)
	} else {
		targets = append(targets, itemTargets("dashboard", dashboards)...)
	}

	targets = append(targets, e.monitorTargets()...)

	if notebooks, err := e.api.ListNotebooks(); err != nil {
		e.log.Warn("restriction policies: skipping notebooks", "error", err)
	} else {
		targets = append(targets, itemTargets("notebook", notebooks)...)
	}

	if slos, err := e.api.SearchSLOs(); err != nil {
		e.log.Warn("restriction policies: skipping slos", "error", err)
	} else {
		targets = append(targets, itemTargets("slo", slos)...)
	}

	// Team routing rules can carry policies too; ids follow the
	// on-call-team-routing-rules:<team_id> convention.
	if teams, err := e.ensureTeams(); err != nil {
		e.log.Warn("restriction policies: skipping team routing rules", "error", err)
	} else {
		for _, team := range teams {
			targets = append(targets, policyTarget{
				resourceID: "on-call-team-routing-rules:" + team.ID,
				label:      team.Name + " routing rules",
				kind:       "oncall-rr",
			})
		}
	}

	total := 0
	for _, target := range targets {
		policy, err := e.api.GetRestrictionPolicy(target.resourceID)
		if err != nil {
			// Absence of a policy is the normal case.
			if !datadog.IsNotFound(err) {
				e.log.Warn("restriction policy lookup failed",
					"resource", target.resourceID, "error", err)
			}
			continue
		}
		name := ResourceFileName(target.resourceID, target.label, target.kind)
		if _, err := e.writer.WriteResource(string(KindRestrictionPolicies), name, policy); err != nil {
			e.log.Warn("skipping restriction policy", "resource", target.resourceID, "error", err)
			continue
		}
		total++
	}
	return total, nil
}

// monitorTargets enumerates monitors with a large page size; policy
// lookups dominate the cost, not the listing.
func (e *Exporter) monitorTargets() []policyTarget {
	var targets []policyTarget
	page := 0
	for {
		items, err := e.api.ListMonitors(page, restrictionPageSize)
		if err != nil {
			e.log.Warn("restriction policies: skipping monitors", "error", err)
			return targets
		}
		targets = append(targets, itemTargets("monitor", items)...)
		if len(items) < restrictionPageSize {
			return targets
		}
		page++
	}
}

// itemTargets converts list items into policy targets, dropping items
// without an id.
func itemTargets(kind string, items []datadog.Item) []policyTarget {
	targets := make([]policyTarget, 0, len(items))
	for _, item := range items {
		id := item.ID()
		if id == "" {
			continue
		}
		targets = append(targets, policyTarget{
			resourceID: kind + ":" + id,
			label:      item.Label(kind),
			kind:       kind,
		})
	}
	return targets
}
