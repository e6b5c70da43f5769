package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/KaramelBytes/bookstats/internal/analytics"
	"github.com/KaramelBytes/bookstats/internal/catalog"
	cfgpkg "github.com/KaramelBytes/bookstats/internal/config"
	"github.com/KaramelBytes/bookstats/internal/dataset"
	"github.com/KaramelBytes/bookstats/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	repDataset string
	repOutput  string
	repFormat  string
	repTopDays int
)

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Summarize revenue, authors and best buyer for a dataset",
	Long: `Loads books.yaml (or books.json), orders.csv and users.csv from a dataset
directory, resolves user identities and prints the summary. Use --dataset to
report on a registered dataset; the report is then also saved with it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (repDataset != "") {
			return errors.New("specify exactly one of <dir> or --dataset")
		}
		format, err := pickFormat(repFormat)
		if err != nil {
			return err
		}
		opt := analytics.DefaultOptions()
		if c := currentConfig(); c.TopDays > 0 {
			opt.TopDays = c.TopDays
		}
		if repTopDays > 0 {
			opt.TopDays = repTopDays
		}

		var (
			dir  string
			name string
			reg  *dataset.Dataset
		)
		if repDataset != "" {
			registry, err := datasetsDir()
			if err != nil {
				return err
			}
			if reg, err = dataset.Open(registry, repDataset); err != nil {
				return err
			}
			dir, name = reg.Dir, reg.Name
		} else {
			dir = args[0]
			name = filepath.Base(filepath.Clean(dir))
		}

		ds, err := catalog.LoadDir(dir)
		if err != nil {
			return err
		}
		logger.Debug("dataset loaded", "dir", dir, "books", len(ds.Books), "orders", len(ds.Orders), "users", len(ds.Users))

		rep, err := analytics.Summarize(name, ds, opt)
		if err != nil {
			return err
		}
		for _, w := range rep.Warnings {
			logger.Warn(w, "dataset", name)
		}

		out := cmd.OutOrStdout()
		written := false
		if repOutput != "" {
			body, err := renderReport(rep, format)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(repOutput, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			successf(out, "Wrote report to %s", repOutput)
			written = true
		}
		if reg != nil {
			// saved reports are markdown unless json was requested
			saveFormat, ext := cfgpkg.FormatMarkdown, ".md"
			if format == cfgpkg.FormatJSON {
				saveFormat, ext = cfgpkg.FormatJSON, ".json"
			}
			body, err := renderReport(rep, saveFormat)
			if err != nil {
				return err
			}
			id, path := reg.NewReportPath(ext)
			if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(path, body); err != nil {
				return fmt.Errorf("write dataset report: %w", err)
			}
			reg.AddReport(id, path)
			if err := reg.Save(); err != nil {
				return err
			}
			logger.Info("report saved", "dataset", reg.Name, "report_id", id)
		}
		if !written {
			body, err := renderReport(rep, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(body))
		}
		return nil
	},
}

func renderReport(rep *analytics.Report, format string) ([]byte, error) {
	switch format {
	case cfgpkg.FormatJSON:
		return utils.PrettyJSON(rep)
	case cfgpkg.FormatTable:
		var buf bytes.Buffer
		renderReportTables(&buf, rep)
		return buf.Bytes(), nil
	default:
		return []byte(rep.Markdown()), nil
	}
}

func renderReportTables(w io.Writer, rep *analytics.Report) {
	metrics := tablewriter.NewWriter(w)
	metrics.SetHeader([]string{"Metric", "Value"})
	metrics.Append([]string{"Dataset", rep.Name})
	metrics.Append([]string{"Orders", strconv.Itoa(rep.TotalOrders)})
	metrics.Append([]string{"Total revenue", fmt.Sprintf("$%.2f", rep.TotalRevenue)})
	if rep.DateFrom != nil && rep.DateTo != nil {
		metrics.Append([]string{"Date range", rep.DateFrom.Format("2006-01-02") + " to " + rep.DateTo.Format("2006-01-02")})
	}
	metrics.Append([]string{"Unique users", strconv.Itoa(rep.UniqueUsers)})
	metrics.Append([]string{"Unique author sets", strconv.Itoa(rep.UniqueAuthorSets)})
	metrics.Append([]string{"Most popular author", fmt.Sprintf("%s (%d sold)", rep.TopAuthor.Authors, rep.TopAuthor.Quantity)})
	metrics.Append([]string{"Best buyer spent", fmt.Sprintf("$%.2f", rep.TopBuyer.Spent)})
	metrics.Append([]string{"Best buyer aliases", "[" + joinIDs(rep.TopBuyer.Aliases) + "]"})
	metrics.Render()

	fmt.Fprintln(w)
	days := tablewriter.NewWriter(w)
	days.SetHeader([]string{"Rank", "Date", "Revenue"})
	for i, d := range rep.TopDays {
		days.Append([]string{strconv.Itoa(i + 1), d.Date, fmt.Sprintf("$%.2f", d.Revenue)})
	}
	days.Render()
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&repDataset, "dataset", "", "registered dataset name (see 'dataset add')")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write the report to this file instead of stdout")
	reportCmd.Flags().StringVar(&repFormat, "format", "", "output format: markdown|table|json (default from config)")
	reportCmd.Flags().IntVar(&repTopDays, "top-days", 0, "number of best revenue days to list (default from config)")
}
