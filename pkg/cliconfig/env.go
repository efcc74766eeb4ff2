// Package cliconfig resolves ddsnap configuration: credentials from
// per-org env files, site label mapping, and the on-disk org directory
// layout shared by all commands.
package cliconfig

import (
	"fmt"
	"os"
)

// Environment variable names. DD_* come from the per-org env file;
// DDSNAP_* override command defaults.
const (
	EnvAPIKey  = "DD_API_KEY"
	EnvAppKey  = "DD_APP_KEY"
	EnvSite    = "DD_SITE"
	EnvAPIURL  = "DD_API_URL"
	EnvBaseDir = "DDSNAP_BASE_DIR"
	EnvSiteLbl = "DDSNAP_SITE"
)

// Credentials holds the Datadog API credentials and site domain for one
// organization.
type Credentials struct {
	APIKey string
	AppKey string
	// Site is the Datadog site domain, e.g. "us5.datadoghq.com".
	Site string
}

// ResolveCredentials reads credentials from the environment, typically
// populated by LoadOrgEnv. siteFallback is used when DD_SITE is unset.
func ResolveCredentials(siteFallback string) (*Credentials, error) {
	apiKey := os.Getenv(EnvAPIKey)
	appKey := os.Getenv(EnvAppKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set; add it to the org env file", EnvAPIKey)
	}
	if appKey == "" {
		return nil, fmt.Errorf("%s is not set; add it to the org env file", EnvAppKey)
	}

	site := os.Getenv(EnvSite)
	if site == "" {
		site = siteFallback
	}
	return &Credentials{APIKey: apiKey, AppKey: appKey, Site: site}, nil
}

// DefaultBaseDir returns the base directory for org exports: the
// DDSNAP_BASE_DIR environment variable, or "datadog-api".
func DefaultBaseDir() string {
	if v := os.Getenv(EnvBaseDir); v != "" {
		return v
	}
	return "datadog-api"
}

// DefaultSiteLabel returns the default site label: the DDSNAP_SITE
// environment variable, or "us1".
func DefaultSiteLabel() string {
	if v := os.Getenv(EnvSiteLbl); v != "" {
		return v
	}
	return "us1"
}
