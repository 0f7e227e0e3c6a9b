package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stemma/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Write a commented config file with default settings. Refuses to overwrite an existing file.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		dir, err := cfg.ResolvedDataDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yml")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
