package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

// EnvFileName is the credentials file expected inside each org directory.
const EnvFileName = ".env"

// OrgDir returns the per-org directory under base:
// <base>/<site>_org_<lower(org)>.
func OrgDir(base, siteLabel, orgLabel string) string {
	name := fmt.Sprintf("%s_org_%s", strings.ToLower(siteLabel), strings.ToLower(strings.TrimSpace(orgLabel)))
	return filepath.Join(base, name)
}

// EnvFileError reports a missing or unreadable org env file.
type EnvFileError struct {
	Path string
	Err  error
}

func (e *EnvFileError) Error() string {
	return fmt.Sprintf("org env file %s: %v", e.Path, e.Err)
}

func (e *EnvFileError) Unwrap() error { return e.Err }

// LoadOrgEnv loads environment variables from the org's .env file,
// overriding any values already present in the process environment.
// The file must exist; exports cannot run without credentials.
func LoadOrgEnv(base, siteLabel, orgLabel string) error {
	path := filepath.Join(OrgDir(base, siteLabel, orgLabel), EnvFileName)
	if _, err := os.Stat(path); err != nil {
		return &EnvFileError{Path: path, Err: err}
	}
	if err := gotenv.OverLoad(path); err != nil {
		return &EnvFileError{Path: path, Err: err}
	}
	return nil
}
