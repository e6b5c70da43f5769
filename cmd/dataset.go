package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/bookstats/internal/dataset"
	"github.com/spf13/cobra"
)

var dsDescription string

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Register and list dataset directories",
}

var datasetAddCmd = &cobra.Command{
	Use:   "add <name> <dir>",
	Short: "Register a dataset directory under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, dir := args[0], args[1]
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("stat dataset dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		registry, err := datasetsDir()
		if err != nil {
			return err
		}
		if _, err := dataset.Open(registry, name); err == nil {
			return fmt.Errorf("dataset %q already exists", name)
		}
		d, err := dataset.New(registry, name, dir, dsDescription)
		if err != nil {
			return err
		}
		if err := d.Save(); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Registered dataset '%s' (%s)", d.Name, d.Dir)
		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := datasetsDir()
		if err != nil {
			return err
		}
		names, err := dataset.List(registry)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "(no datasets)")
			return nil
		}
		for _, n := range names {
			d, err := dataset.Open(registry, n)
			if err != nil {
				warnf(cmd.ErrOrStderr(), "skipping %s: %v", n, err)
				continue
			}
			fmt.Fprintf(out, "- %s: %s (%d reports)\n", d.Name, d.Dir, len(d.Reports))
		}
		return nil
	},
}

func datasetsDir() (string, error) {
	dir := currentConfig().DatasetsDir
	if dir == "" {
		return "", errors.New("datasets_dir is not configured")
	}
	return dir, nil
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetAddCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetAddCmd.Flags().StringVarP(&dsDescription, "desc", "d", "", "dataset description")
}
