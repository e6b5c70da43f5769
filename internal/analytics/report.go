package analytics

import (
	"fmt"
	"strings"
	"time"
)

// DayRevenue is the revenue booked on one calendar day.
type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// AuthorSales is the number of copies sold for one author set.
type AuthorSales struct {
	Authors  string `json:"authors"`
	Quantity int    `json:"quantity"`
}

// Buyer is a resolved customer identity and what it spent.
type Buyer struct {
	CanonicalID int64   `json:"canonical_id"`
	Aliases     []int64 `json:"aliases"`
	Spent       float64 `json:"spent"`
}

// Report summarizes one bookstore dataset.
type Report struct {
	Name             string       `json:"name"`
	TotalOrders      int          `json:"total_orders"`
	TotalRevenue     float64      `json:"total_revenue"`
	DateFrom         *time.Time   `json:"date_from,omitempty"`
	DateTo           *time.Time   `json:"date_to,omitempty"`
	TopDays          []DayRevenue `json:"top_days"`
	DailyRevenue     []DayRevenue `json:"daily_revenue"`
	UniqueUsers      int          `json:"unique_users"`
	UniqueAuthorSets int          `json:"unique_author_sets"`
	TopAuthor        AuthorSales  `json:"top_author"`
	TopBuyer         Buyer        `json:"top_buyer"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// Markdown renders a compact, human readable summary.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[BOOKSTORE SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Orders: %d\n", r.TotalOrders))
	b.WriteString(fmt.Sprintf("Total revenue: %s\n", money(r.TotalRevenue)))
	if r.DateFrom != nil && r.DateTo != nil {
		b.WriteString(fmt.Sprintf("Date range: %s to %s\n", r.DateFrom.Format("2006-01-02"), r.DateTo.Format("2006-01-02")))
	}
	b.WriteString("\n[KEY METRICS]\n")
	b.WriteString(fmt.Sprintf("- Unique users: %d\n", r.UniqueUsers))
	b.WriteString(fmt.Sprintf("- Unique author sets: %d\n", r.UniqueAuthorSets))
	b.WriteString(fmt.Sprintf("- Most popular author: %s (%d sold)\n", r.TopAuthor.Authors, r.TopAuthor.Quantity))

	b.WriteString(fmt.Sprintf("\n[TOP %d DAYS BY REVENUE]\n", len(r.TopDays)))
	for i, d := range r.TopDays {
		b.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, d.Date, money(d.Revenue)))
	}

	b.WriteString("\n[BEST BUYER]\n")
	b.WriteString(fmt.Sprintf("Total spent: %s\n", money(r.TopBuyer.Spent)))
	aliases := make([]string, len(r.TopBuyer.Aliases))
	for i, a := range r.TopBuyer.Aliases {
		aliases[i] = fmt.Sprintf("%d", a)
	}
	b.WriteString(fmt.Sprintf("Aliases: [%s]\n", strings.Join(aliases, ", ")))

	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// money formats v as dollars with thousands separators, e.g. $1,234.50.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	whole, frac := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "$" + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
