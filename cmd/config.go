package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/bookstats/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bookstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "datasets_dir: %s\n", cfg.DatasetsDir)
		fmt.Fprintf(out, "database_path: %s\n", cfg.DatabasePath)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "top_days: %d\n", cfg.TopDays)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// edit the file's own values so defaults and env overrides are not persisted
		raw, err := cfgpkg.Raw(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "datasets_dir":
			raw.DatasetsDir = val
		case "database_path":
			raw.DatabasePath = val
		case "output_format":
			if !cfgpkg.ValidFormat(val) {
				return fmt.Errorf("invalid output_format: %s (use markdown, table or json)", val)
			}
			raw.OutputFormat = val
		case "top_days":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_days: %v", val)
			}
			raw.TopDays = i
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				raw.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch val {
			case "text", "json":
				raw.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(raw, cfgFile); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
