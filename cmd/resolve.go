package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bookstats/internal/catalog"
	cfgpkg "github.com/KaramelBytes/bookstats/internal/config"
	"github.com/KaramelBytes/bookstats/internal/identity"
	"github.com/KaramelBytes/bookstats/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	resFormat string
	resAll    bool
)

type identityGroup struct {
	Canonical int64   `json:"canonical_id"`
	Members   []int64 `json:"members"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <users.csv>",
	Short: "Group user records that belong to the same person",
	Long: `Links user records that share an email (case-insensitive), a phone number
(digits only) or an address (case-insensitive), transitively, and prints one
identity per group with all of its user ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := pickFormat(resFormat)
		if err != nil {
			return err
		}
		users, err := catalog.LoadUsers(args[0])
		if err != nil {
			return err
		}
		res := identity.Resolve(users)
		logger.Debug("resolved identities", "records", len(users), "identities", res.Len())

		var groups []identityGroup
		for _, g := range res.Sorted() {
			if resAll || len(g.Members) > 1 {
				groups = append(groups, identityGroup{Canonical: g.Canonical, Members: g.Members})
			}
		}
		out := cmd.OutOrStdout()
		switch format {
		case cfgpkg.FormatJSON:
			b, err := utils.PrettyJSON(map[string]any{
				"records":    len(users),
				"identities": res.Len(),
				"groups":     groups,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case cfgpkg.FormatTable:
			renderGroupsTable(out, groups)
		default:
			fmt.Fprint(out, groupsMarkdown(len(users), res.Len(), groups))
		}
		return nil
	},
}

func renderGroupsTable(w io.Writer, groups []identityGroup) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Canonical ID", "Size", "Members"})
	for _, g := range groups {
		table.Append([]string{
			strconv.FormatInt(g.Canonical, 10),
			strconv.Itoa(len(g.Members)),
			joinIDs(g.Members),
		})
	}
	table.Render()
}

func groupsMarkdown(records, identities int, groups []identityGroup) string {
	var b strings.Builder
	b.WriteString("[IDENTITY GROUPS]\n")
	b.WriteString(fmt.Sprintf("Records: %d\n", records))
	b.WriteString(fmt.Sprintf("Identities: %d\n\n", identities))
	if len(groups) == 0 {
		b.WriteString("(no groups)\n")
		return b.String()
	}
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("- %d: [%s]\n", g.Canonical, joinIDs(g.Members)))
	}
	return b.String()
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resFormat, "format", "", "output format: markdown|table|json (default from config)")
	resolveCmd.Flags().BoolVar(&resAll, "all", false, "include single-record identities")
}
