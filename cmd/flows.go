package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "List saved flows",
	Long:  `Display every flow in the database, most recently edited first.`,
	RunE:  runFlows,
}

func init() {
	rootCmd.AddCommand(flowsCmd)
}

func runFlows(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	flows, err := db.Flows().List(cmdContext(cmd))
	if err != nil {
		return fmt.Errorf("listing flows: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(flows) == 0 {
		fmt.Fprintln(out, "No flows yet. Run stemma to create one.")
		return nil
	}

	maxLen := 0
	for _, fl := range flows {
		if len(fl.Name) > maxLen {
			maxLen = len(fl.Name)
		}
	}
	for _, fl := range flows {
		fmt.Fprintf(out, "%-*s  edited %s\n", maxLen, fl.Name, fl.UpdatedAt.Format(time.DateTime))
	}
	return nil
}
