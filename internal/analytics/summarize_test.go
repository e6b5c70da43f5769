package analytics

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/bookstats/internal/catalog"
	"github.com/KaramelBytes/bookstats/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *catalog.Dataset {
	return &catalog.Dataset{
		Books: []catalog.Book{
			{ID: "1", Title: "Dune", Author: "Frank Herbert"},
			{ID: "2", Title: "Good Omens", Author: "Terry Pratchett, Neil Gaiman"},
			{ID: "3", Title: "Good Omens (reissue)", Author: "Neil Gaiman,Terry Pratchett"},
		},
		Users: []identity.Record[int64]{
			{ID: 10, Email: "ann@x.com"},
			{ID: 11, Email: "ANN@x.com ", Phone: "555-0100"},
			{ID: 12, Phone: "(555) 0100"},
			{ID: 20, Email: "bo@x.com"},
		},
		Orders: []catalog.Order{
			{UserID: 10, BookID: "1", Quantity: 1, UnitPrice: "$10.00", Timestamp: "2024-01-01 09:00:00"},
			{UserID: 12, BookID: "2", Quantity: 2, UnitPrice: "€5", Timestamp: "2024-01-02;10:00:00"},
			{UserID: 20, BookID: "3", Quantity: 1, UnitPrice: "$15", Timestamp: "2024-01-02 11:00:00"},
			{UserID: 20, BookID: "9", Quantity: 3, UnitPrice: "$1", Timestamp: "garbage"},
		},
	}
}

func TestSummarize(t *testing.T) {
	rep, err := Summarize("DATA1", fixture(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, rep.TotalOrders)
	assert.InDelta(t, 10+12+15+3, rep.TotalRevenue, 1e-9)
	assert.Equal(t, 2, rep.UniqueUsers)
	assert.Equal(t, 3, rep.UniqueAuthorSets, "Herbert, Gaiman+Pratchett, Unknown")
	assert.Equal(t, AuthorSales{Authors: "Neil Gaiman, Terry Pratchett", Quantity: 3}, rep.TopAuthor)

	// 10 and 12 are one person through 11: 10 + 12 = 22 beats 15 + 3 = 18.
	assert.Equal(t, int64(10), rep.TopBuyer.CanonicalID)
	assert.Equal(t, []int64{10, 11, 12}, rep.TopBuyer.Aliases)
	assert.InDelta(t, 22, rep.TopBuyer.Spent, 1e-9)

	require.Len(t, rep.DailyRevenue, 2)
	assert.Equal(t, "2024-01-01", rep.DailyRevenue[0].Date)
	assert.Equal(t, "2024-01-02", rep.TopDays[0].Date)
	assert.InDelta(t, 27, rep.TopDays[0].Revenue, 1e-9)
	require.NotNil(t, rep.DateFrom)
	assert.Equal(t, "2024-01-01", rep.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2024-01-02", rep.DateTo.Format("2006-01-02"))
	assert.Len(t, rep.Warnings, 1)
}

func TestSummarizeNoOrders(t *testing.T) {
	ds := fixture()
	ds.Orders = nil
	_, err := Summarize("empty", ds, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestSummarizeUnknownUserFallsBackToOwnID(t *testing.T) {
	ds := fixture()
	ds.Orders = []catalog.Order{{UserID: 99, BookID: "1", Quantity: 4, UnitPrice: "$2", Timestamp: "2024-02-01"}}
	rep, err := Summarize("x", ds, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Buyer{CanonicalID: 99, Aliases: []int64{99}, Spent: 8}, rep.TopBuyer)
	assert.Contains(t, strings.Join(rep.Warnings, "\n"), "missing from the users file")
}

func TestSummarizeTiesPickSmallestKey(t *testing.T) {
	ds := &catalog.Dataset{
		Books: []catalog.Book{{ID: "1", Author: "Zed"}, {ID: "2", Author: "Amy"}},
		Users: []identity.Record[int64]{{ID: 2}, {ID: 1}},
		Orders: []catalog.Order{
			{UserID: 2, BookID: "1", Quantity: 1, UnitPrice: "$5", Timestamp: "2024-03-02"},
			{UserID: 1, BookID: "2", Quantity: 1, UnitPrice: "$5", Timestamp: "2024-03-01"},
		},
	}
	rep, err := Summarize("ties", ds, Options{TopDays: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rep.TopBuyer.CanonicalID)
	assert.Equal(t, "Amy", rep.TopAuthor.Authors)
	assert.Equal(t, []DayRevenue{{Date: "2024-03-01", Revenue: 5}}, rep.TopDays)
}

func TestReportMarkdown(t *testing.T) {
	rep, err := Summarize("DATA1", fixture(), DefaultOptions())
	require.NoError(t, err)
	md := rep.Markdown()
	for _, want := range []string{
		"[BOOKSTORE SUMMARY]",
		"Dataset: DATA1",
		"Total revenue: $40.00",
		"Date range: 2024-01-01 to 2024-01-02",
		"- Unique users: 2",
		"[TOP 2 DAYS BY REVENUE]",
		"1. 2024-01-02 — $27.00",
		"Aliases: [10, 11, 12]",
		"[WARNINGS]",
	} {
		assert.Contains(t, md, want)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$999.50", money(999.5))
	assert.Equal(t, "$1,234.50", money(1234.5))
	assert.Equal(t, "$1,234,567.89", money(1234567.891))
	assert.Equal(t, "-$12.00", money(-12))
}
