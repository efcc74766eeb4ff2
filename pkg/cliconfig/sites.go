package cliconfig

import (
	"regexp"
	"strings"
)

// Known Datadog sites, short region label to API domain.
var siteDomains = map[string]string{
	"us1": "datadoghq.com",
	"us3": "us3.datadoghq.com",
	"us5": "us5.datadoghq.com",
	"eu1": "datadoghq.eu",
	"ap1": "ap1.datadoghq.com",
}

var siteDomainRe = regexp.MustCompile(`^([a-z0-9-]+)\.datadoghq\.(com|eu)$`)

// SiteDomain maps a short region label ("us5") to the Datadog site
// domain ("us5.datadoghq.com"). Labels that already look like a domain
// are passed through; anything else falls back to the us1 domain.
func SiteDomain(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if d, ok := siteDomains[label]; ok {
		return d
	}
	if strings.Contains(label, ".") {
		return label
	}
	return siteDomains["us1"]
}

// SiteLabel maps a Datadog site domain back to the short region label
// used in directory names. Unrecognized domains become "custom".
func SiteLabel(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	for label, d := range siteDomains {
		if domain == d {
			return label
		}
	}
	if m := siteDomainRe.FindStringSubmatch(domain); m != nil && m[1] != "www" {
		return m[1]
	}
	return "custom"
}
