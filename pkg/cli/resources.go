package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ddsnap/ddsnap/pkg/export"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List supported resource types and their aliases",
	Long: `List the resource types ddsnap can export, with the aliases
accepted in the RESOURCE_LIST argument of 'ddsnap export'.

Examples:
  ddsnap resources
  ddsnap resources --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printResourcesJSON()
		}
		return printResourcesTable()
	},
}

func printResourcesJSON() error {
	type resourceInfo struct {
		Kind    string   `json:"kind"`
		Aliases []string `json:"aliases"`
	}
	out := make([]resourceInfo, 0, len(export.Kinds()))
	for _, kind := range export.Kinds() {
		out = append(out, resourceInfo{
			Kind:    string(kind),
			Aliases: export.Aliases(kind)[1:],
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printResourcesTable() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tALIASES")
	for _, kind := range export.Kinds() {
		aliases := export.Aliases(kind)[1:]
		fmt.Fprintf(w, "%s\t%s\n", kind, strings.Join(aliases, ", "))
	}
	return w.Flush()
}

func init() {
	resourcesCmd.Flags().Bool("json", false, "Output in JSON format")
	rootCmd.AddCommand(resourcesCmd)
}
