// Package analytics aggregates orders into revenue, author and customer
// metrics. Customers are re-keyed through identity resolution before any
// per-customer totals are computed.
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/bookstats/internal/catalog"
	"github.com/KaramelBytes/bookstats/internal/cleaning"
	"github.com/KaramelBytes/bookstats/internal/identity"
)

// ErrNoOrders is returned when a dataset contains no orders to aggregate.
var ErrNoOrders = errors.New("no orders found")

// Options controls aggregation.
type Options struct {
	// TopDays is how many best revenue days to report.
	TopDays int
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{TopDays: 5}
}

// Summarize aggregates ds. The identity result is computed from ds.Users.
func Summarize(name string, ds *catalog.Dataset, opt Options) (*Report, error) {
	return SummarizeWith(name, ds, identity.Resolve(ds.Users), opt)
}

// SummarizeWith aggregates ds using an already resolved identity result.
func SummarizeWith(name string, ds *catalog.Dataset, ids *identity.Result[int64], opt Options) (*Report, error) {
	if len(ds.Orders) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoOrders)
	}
	if opt.TopDays <= 0 {
		opt.TopDays = DefaultOptions().TopDays
	}

	authorsByBook := make(map[catalog.Scalar]string, len(ds.Books))
	for _, b := range ds.Books {
		if _, dup := authorsByBook[b.ID]; !dup {
			authorsByBook[b.ID] = b.Author
		}
	}

	rep := &Report{Name: name, TotalOrders: len(ds.Orders), UniqueUsers: ids.Len()}
	daily := map[string]float64{}
	authorQty := map[string]int{}
	spending := map[int64]float64{}
	var unparsed, unknownUsers int
	var from, to time.Time

	for _, o := range ds.Orders {
		paid := float64(o.Quantity) * cleaning.CleanPrice(o.UnitPrice)
		rep.TotalRevenue += paid

		if ts, ok := cleaning.ParseTimestamp(o.Timestamp); ok {
			daily[cleaning.DateKey(ts)] += paid
			if from.IsZero() || ts.Before(from) {
				from = ts
			}
			if to.IsZero() || ts.After(to) {
				to = ts
			}
		} else {
			unparsed++
		}

		authorQty[cleaning.NormalizeAuthors(authorsByBook[catalog.Scalar(o.BookID)])] += o.Quantity

		if _, known := ids.Mapping[o.UserID]; !known {
			unknownUsers++
		}
		spending[ids.Canonical(o.UserID)] += paid
	}

	if !from.IsZero() {
		rep.DateFrom, rep.DateTo = &from, &to
	}
	rep.DailyRevenue, rep.TopDays = dailySeries(daily, opt.TopDays)
	rep.UniqueAuthorSets = len(authorQty)
	rep.TopAuthor = topAuthor(authorQty)
	rep.TopBuyer = topBuyer(spending, ids)

	if unparsed > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d orders with unparseable timestamps excluded from daily revenue", unparsed))
	}
	if unknownUsers > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d orders reference users missing from the users file", unknownUsers))
	}
	return rep, nil
}

// dailySeries returns revenue per day in date order, plus the top n days by
// revenue (ties broken by the earlier date).
func dailySeries(daily map[string]float64, n int) (series, top []DayRevenue) {
	series = make([]DayRevenue, 0, len(daily))
	for d, v := range daily {
		series = append(series, DayRevenue{Date: d, Revenue: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	ranked := make([]DayRevenue, len(series))
	copy(ranked, series)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return series, ranked
}

func topAuthor(qty map[string]int) AuthorSales {
	keys := make([]string, 0, len(qty))
	for k := range qty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := AuthorSales{Authors: "No Data"}
	for i, k := range keys {
		if i == 0 || qty[k] > best.Quantity {
			best = AuthorSales{Authors: k, Quantity: qty[k]}
		}
	}
	return best
}

func topBuyer(spending map[int64]float64, ids *identity.Result[int64]) Buyer {
	keys := make([]int64, 0, len(spending))
	for k := range spending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var best Buyer
	for i, k := range keys {
		if i == 0 || spending[k] > best.Spent {
			best = Buyer{CanonicalID: k, Spent: spending[k]}
		}
	}
	if len(keys) > 0 {
		best.Aliases = ids.Aliases(best.CanonicalID)
	}
	return best
}
