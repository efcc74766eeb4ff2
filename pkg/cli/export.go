package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ddsnap/ddsnap/pkg/cliconfig"
	"github.com/ddsnap/ddsnap/pkg/datadog"
	"github.com/ddsnap/ddsnap/pkg/export"
	"github.com/ddsnap/ddsnap/pkg/history"
	"github.com/ddsnap/ddsnap/pkg/remote"
)

// exportOptions are the resolved settings for one export run.
type exportOptions struct {
	Org       string
	Resources string
	Base      string
	Site      string
	S3Bucket  string
	S3Prefix  string
	NoHistory bool
}

var exportCmd = &cobra.Command{
	Use:   "export <ORG_LABEL> <RESOURCE_LIST> [key=value...]",
	Short: "Export org resources to per-resource JSON files",
	Long: `Export Datadog resources for one organization.

RESOURCE_LIST is a comma-separated list of resource types. Names are
case-insensitive and common aliases work: Monitors, Dashboard, SLOs,
"on call", "software catalog", ...

Trailing key=value arguments (base=<path>, site=<label>) are accepted
for compatibility with older scripts and take precedence over the
corresponding flags.

Credentials are loaded from <base>/<site>_org_<lower org>/.env; output
is written next to it, one directory per resource type.

Examples:
  # Export monitors and dashboards for the SANDBOX org on us5
  ddsnap export SANDBOX "Monitors,Dashboards" --base exports --site us5

  # Same, using key=value arguments
  ddsnap export SANDBOX "Monitors,Dashboards" base=exports site=us5

  # Everything, mirrored to S3 afterwards
  ddsnap export PROD all --site eu1 --s3-bucket org-backups`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := exportOptionsFromArgs(cmd, args)
		if err != nil {
			return err
		}
		return runExport(opts, newLogger())
	},
}

// exportOptionsFromArgs merges positional args, key=value extras and
// flags into one option set.
func exportOptionsFromArgs(cmd *cobra.Command, args []string) (exportOptions, error) {
	opts := exportOptions{
		Org:       args[0],
		Resources: "monitors",
	}
	if len(args) > 1 {
		opts.Resources = args[1]
	}

	opts.Base, _ = cmd.Flags().GetString("base")
	opts.Site, _ = cmd.Flags().GetString("site")
	opts.S3Bucket, _ = cmd.Flags().GetString("s3-bucket")
	opts.S3Prefix, _ = cmd.Flags().GetString("s3-prefix")
	opts.NoHistory, _ = cmd.Flags().GetBool("no-history")

	// key=value extras override flags, matching the original CLI.
	if len(args) > 2 {
		for _, extra := range args[2:] {
			key, value, ok := strings.Cut(extra, "=")
			if !ok {
				return opts, fmt.Errorf("unexpected argument %q (want key=value)", extra)
			}
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "base":
				opts.Base = strings.TrimSpace(value)
			case "site":
				opts.Site = strings.TrimSpace(value)
			default:
				return opts, fmt.Errorf("unknown option %q (supported: base, site)", key)
			}
		}
	}
	opts.Site = strings.ToLower(opts.Site)
	return opts, nil
}

// runExport performs one full export run: load credentials, fetch and
// write the requested kinds, then record history and mirror to S3.
func runExport(opts exportOptions, log *slog.Logger) error {
	kinds, unknown := parseResourceList(opts.Resources)
	for _, name := range unknown {
		log.Warn("unknown resource, skipping", "resource", name)
	}
	if len(kinds) == 0 {
		log.Info("no valid resources requested; nothing to do")
		return nil
	}

	if err := cliconfig.LoadOrgEnv(opts.Base, opts.Site, opts.Org); err != nil {
		return err
	}
	creds, err := cliconfig.ResolveCredentials(cliconfig.SiteDomain(opts.Site))
	if err != nil {
		return err
	}

	orgDir := cliconfig.OrgDir(opts.Base, opts.Site, opts.Org)
	log.Info("starting export",
		"org", opts.Org,
		"site", creds.Site,
		"dir", orgDir,
		"resources", kindNames(kinds),
	)

	// DD_API_URL (usually from the org env file) overrides the API
	// base URL, for proxied setups.
	var clientOpts []datadog.Option
	if u := os.Getenv(cliconfig.EnvAPIURL); u != "" {
		clientOpts = append(clientOpts, datadog.WithBaseURL(u))
	}

	exporter := export.New(export.Config{
		API:        datadog.NewClient(creds.Site, creds.APIKey, creds.AppKey, clientOpts...),
		Root:       orgDir,
		Org:        opts.Org,
		Site:       opts.Site,
		SiteDomain: creds.Site,
		Logger:     log,
	})
	runErr := exporter.Run(kinds)

	manifest := exporter.Manifest()
	log.Info("export finished",
		"run_id", manifest.RunID,
		"exported", manifest.TotalExported(),
		"failed_kinds", manifest.ErrorCount(),
	)

	if !opts.NoHistory {
		if err := recordHistory(orgDir, manifest); err != nil {
			log.Warn("failed to record run history", "error", err)
		}
	}
	if opts.S3Bucket != "" {
		if err := mirrorToS3(opts, orgDir, log); err != nil {
			log.Warn("S3 mirror incomplete", "bucket", opts.S3Bucket, "error", err)
		}
	}
	return runErr
}

// recordHistory stores the run summary in the org's history database.
func recordHistory(orgDir string, manifest *export.Manifest) error {
	store, err := history.Open(filepath.Join(orgDir, history.DBFileName))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	resources := make(map[string]int, len(manifest.Resources))
	for kind, result := range manifest.Resources {
		resources[kind] = result.Count
	}
	return store.Record(history.Run{
		ID:         manifest.RunID,
		Org:        manifest.Org,
		Site:       manifest.Site,
		StartedAt:  manifest.StartedAt,
		FinishedAt: manifest.FinishedAt,
		Resources:  resources,
		Errors:     manifest.ErrorCount(),
	})
}

// mirrorToS3 uploads the org directory to the configured bucket.
func mirrorToS3(opts exportOptions, orgDir string, log *slog.Logger) error {
	ctx := context.Background()
	client, err := remote.NewS3Client(ctx)
	if err != nil {
		return err
	}
	prefix := opts.S3Prefix
	if prefix == "" {
		prefix = filepath.Base(orgDir)
	}
	mirror := remote.NewMirror(client, opts.S3Bucket, prefix, log)
	count, err := mirror.Upload(ctx, orgDir)
	if err != nil {
		return err
	}
	log.Info("mirrored to S3", "bucket", opts.S3Bucket, "prefix", prefix, "objects", count)
	return nil
}

// parseResourceList resolves a resource list, with "all" expanding to
// every supported kind.
func parseResourceList(arg string) ([]export.Kind, []string) {
	if strings.EqualFold(strings.TrimSpace(arg), "all") {
		return export.Kinds(), nil
	}
	return export.ParseKinds(arg)
}

func kindNames(kinds []export.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func init() {
	exportCmd.Flags().String("base", cliconfig.DefaultBaseDir(), "Base directory for org exports")
	exportCmd.Flags().String("site", cliconfig.DefaultSiteLabel(), "Site label: us1, us3, us5, eu1, ap1")
	exportCmd.Flags().String("s3-bucket", "", "Mirror the export to this S3 bucket after the run")
	exportCmd.Flags().String("s3-prefix", "", "Key prefix for the S3 mirror (default: org directory name)")
	exportCmd.Flags().Bool("no-history", false, "Skip recording the run in the history database")
	rootCmd.AddCommand(exportCmd)
}
