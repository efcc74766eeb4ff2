package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ddsnap/ddsnap/pkg/cliconfig"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <CRON_SPEC> <ORG_LABEL> <RESOURCE_LIST> [key=value...]",
	Short: "Run exports on a cron schedule until interrupted",
	Long: `Run 'ddsnap export' repeatedly on a cron schedule. The process
stays in the foreground and stops on SIGINT/SIGTERM.

The cron spec uses the standard five fields (minute, hour, day of
month, month, day of week).

Examples:
  # Nightly full backup at 03:00
  ddsnap schedule "0 3 * * *" PROD all --site eu1

  # Hourly monitors-only snapshot, run once immediately as well
  ddsnap schedule "0 * * * *" SANDBOX Monitors --run-now`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := args[0]
		opts, err := exportOptionsFromArgs(cmd, args[1:])
		if err != nil {
			return err
		}
		runNow, _ := cmd.Flags().GetBool("run-now")
		log := newLogger()

		runOnce := func() {
			if err := runExport(opts, log); err != nil {
				log.Error("scheduled export failed", "org", opts.Org, "error", err)
			}
		}

		scheduler := cron.New()
		if _, err := scheduler.AddFunc(spec, runOnce); err != nil {
			return err
		}

		if runNow {
			runOnce()
		}

		scheduler.Start()
		log.Info("scheduler started", "spec", spec, "org", opts.Org)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		// Wait for an in-flight export to finish before exiting.
		<-scheduler.Stop().Done()
		log.Info("scheduler stopped")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().String("base", cliconfig.DefaultBaseDir(), "Base directory for org exports")
	scheduleCmd.Flags().String("site", cliconfig.DefaultSiteLabel(), "Site label: us1, us3, us5, eu1, ap1")
	scheduleCmd.Flags().String("s3-bucket", "", "Mirror each export to this S3 bucket")
	scheduleCmd.Flags().String("s3-prefix", "", "Key prefix for the S3 mirror")
	scheduleCmd.Flags().Bool("no-history", false, "Skip recording runs in the history database")
	scheduleCmd.Flags().Bool("run-now", false, "Run one export immediately, then follow the schedule")
	rootCmd.AddCommand(scheduleCmd)
}
