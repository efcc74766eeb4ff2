// Package export implements the resource export engine: for each
// requested resource kind it lists the org's resources through the
// Datadog API client and persists every item as a JSON file under the
// org directory.
package export

import (
	"sort"
	"strings"
)

// Kind identifies an exportable resource type. The value doubles as
// the output subdirectory name.
type Kind string

// Supported resource kinds.
const (
	KindMonitors            Kind = "monitors"
	KindDashboards          Kind = "dashboards"
	KindNotebooks           Kind = "notebooks"
	KindRoles               Kind = "roles"
	KindUsers               Kind = "users"
	KindTeams               Kind = "teams"
	KindOnCall              Kind = "on_call"
	KindTags                Kind = "tags"
	KindSLOs                Kind = "slos"
	KindRestrictionPolicies Kind = "restriction_policies"
	KindSoftwareCatalog     Kind = "software_catalog"
)

// kindOrder is the canonical display and default export order.
var kindOrder = []Kind{
	KindMonitors,
	KindDashboards,
	KindNotebooks,
	KindRoles,
	KindUsers,
	KindTeams,
	KindOnCall,
	KindTags,
	KindSLOs,
	KindRestrictionPolicies,
	KindSoftwareCatalog,
}

// kindAliases maps user-facing spellings (case-insensitive) to kinds.
var kindAliases = map[string]Kind{
	"monitors":                 KindMonitors,
	"monitor":                  KindMonitors,
	"dashboards":               KindDashboards,
	"dashboard":                KindDashboards,
	"notebooks":                KindNotebooks,
	"notebook":                 KindNotebooks,
	"roles":                    KindRoles,
	"role":                     KindRoles,
	"users":                    KindUsers,
	"user":                     KindUsers,
	"teams":                    KindTeams,
	"team":                     KindTeams,
	"on call":                  KindOnCall,
	"on_call":                  KindOnCall,
	"oncall":                   KindOnCall,
	"tags":                     KindTags,
	"slos":                     KindSLOs,
	"slo":                      KindSLOs,
	"service level objectives": KindSLOs,
	"restriction policies":     KindRestrictionPolicies,
	"restriction_policies":     KindRestrictionPolicies,
	"software catalog":         KindSoftwareCatalog,
	"software_catalog":         KindSoftwareCatalog,
	"service catalog":          KindSoftwareCatalog,
}

// Kinds returns all supported kinds in canonical order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Aliases returns the accepted spellings for a kind, canonical name
// first.
func Aliases(kind Kind) []string {
	out := []string{string(kind)}
	for alias, k := range kindAliases {
		if k == kind && alias != string(kind) {
			out = append(out, alias)
		}
	}
	sort.Strings(out[1:])
	return out
}

// ParseKinds resolves a comma-separated resource list ("Monitors,
// Dashboards") through the alias table. Unknown entries are returned
// separately so callers can warn about them; duplicates are dropped
// preserving first-seen order.
func ParseKinds(arg string) (kinds []Kind, unknown []string) {
	seen := make(map[Kind]bool)
	for _, raw := range strings.Split(arg, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		kind, ok := kindAliases[name]
		if !ok {
			unknown = append(unknown, strings.TrimSpace(raw))
			continue
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, unknown
}
