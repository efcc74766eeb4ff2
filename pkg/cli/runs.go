package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ddsnap/ddsnap/pkg/cliconfig"
	"github.com/ddsnap/ddsnap/pkg/history"
)

var runsCmd = &cobra.Command{
	Use:   "runs <ORG_LABEL>",
	Short: "List past export runs for an org",
	Long: `List export runs recorded in the org's history database.

Examples:
  ddsnap runs SANDBOX --base exports --site us5
  ddsnap runs PROD --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("base")
		site, _ := cmd.Flags().GetString("site")
		limit, _ := cmd.Flags().GetInt("limit")

		orgDir := cliconfig.OrgDir(base, site, args[0])
		dbPath := filepath.Join(orgDir, history.DBFileName)
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("no run history for %s (looked at %s)", args[0], dbPath)
		}

		store, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		runs, err := store.List(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTARTED\tDURATION\tEXPORTED\tERRORS")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				run.ID,
				run.StartedAt.Local().Format(time.RFC3339),
				run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
				run.Exported(),
				run.Errors,
			)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().String("base", cliconfig.DefaultBaseDir(), "Base directory for org exports")
	runsCmd.Flags().String("site", cliconfig.DefaultSiteLabel(), "Site label: us1, us3, us5, eu1, ap1")
	runsCmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	rootCmd.AddCommand(runsCmd)
}
