package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a flow's node graph",
	Long:  `Write the stored node graph of a flow to stdout as JSON or YAML.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("flow", "", "flow to export (default from config)")
	exportCmd.Flags().String("format", "json", "output format: json or yaml")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}

	flowName := cfg.Flow
	if v, _ := cmd.Flags().GetString("flow"); v != "" {
		flowName = v
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.Flows()

	ctx := cmdContext(cmd)
	fl, err := repo.FindByName(ctx, flowName)
	if err != nil {
		return err
	}
	g, err := repo.LoadGraph(ctx, fl.ID)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(g, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(g)
	}
	if err != nil {
		return fmt.Errorf("encoding flow: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
