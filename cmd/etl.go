package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/bookstats/internal/catalog"
	"github.com/KaramelBytes/bookstats/internal/identity"
	"github.com/KaramelBytes/bookstats/internal/store"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	etlDB    string
	etlUsers string
)

var etlCmd = &cobra.Command{
	Use:   "etl <books file>",
	Short: "Load a books catalog into SQLite and build the per-year summary table",
	Long: `Parses a books file (.yaml/.yml with symbol keys, or .json with :key=> pairs),
inserts it into the books table, rebuilds the summary table (book count and
average dollar price per publication year) and prints both row counts. With
--users the resolved user identities are stored as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		books, err := catalog.LoadBooks(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Parsed %d records.\n", len(books))

		dbPath := etlDB
		if dbPath == "" {
			dbPath = currentConfig().DatabasePath
		}
		st, err := store.Open(ctx, dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		inserted, err := st.LoadBooks(ctx, books)
		if err != nil {
			return err
		}
		logger.Debug("books loaded", "db", dbPath, "inserted", inserted, "skipped", len(books)-inserted)
		if err := st.BuildSummary(ctx); err != nil {
			return err
		}
		if !store.IsMemory(dbPath) {
			successf(out, "Loaded books into %s", dbPath)
		}

		if etlUsers != "" {
			users, err := catalog.LoadUsers(etlUsers)
			if err != nil {
				return err
			}
			res := identity.Resolve(users)
			if err := st.SaveIdentities(ctx, res); err != nil {
				return err
			}
			successf(out, "Stored %d users as %d identities", len(users), res.Len())
			if largest, ok := largestGroup(res); ok {
				aliases, err := st.Aliases(ctx, largest)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Largest identity: %d -> [%s]\n", largest, joinIDs(aliases))
			}
		}

		nBooks, nSummary, err := st.Counts(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "\n--- Row Counts ---")
		fmt.Fprintf(out, "Books Table: %d\n", nBooks)
		fmt.Fprintf(out, "Summary Table: %d\n", nSummary)

		rows, err := st.Summary(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "\n--- Summary Table ---")
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Year", "Count", "Avg Price ($)"})
		for _, r := range rows {
			year := "-"
			if r.Year != 0 {
				year = strconv.Itoa(r.Year)
			}
			table.Append([]string{year, strconv.Itoa(r.BookCount), fmt.Sprintf("%.2f", r.AveragePrice)})
		}
		table.Render()
		return nil
	},
}

// largestGroup returns the canonical id of the identity with the most
// members, the smallest canonical id winning ties.
func largestGroup(res *identity.Result[int64]) (int64, bool) {
	var (
		best  int64
		size  int
		found bool
	)
	for _, g := range res.Sorted() {
		if len(g.Members) > size {
			best, size, found = g.Canonical, len(g.Members), true
		}
	}
	return best, found
}

func init() {
	rootCmd.AddCommand(etlCmd)
	etlCmd.Flags().StringVar(&etlDB, "db", "", "SQLite database path (default from config)")
	etlCmd.Flags().StringVar(&etlUsers, "users", "", "optional users CSV whose resolved identities are stored too")
}
