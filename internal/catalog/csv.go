package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/bookstats/internal/identity"
)

// table is a header-indexed view over a CSV stream.
type table struct {
	name string
	r    *csv.Reader
	cols map[string]int
	row  int
}

func openTable(f io.Reader, name string) (*table, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", name)
		}
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	t := &table{name: name, r: r, cols: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := t.cols[h]; !dup {
			t.cols[h] = i
		}
	}
	return t, nil
}

func (t *table) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.cols[c]; !ok {
			return fmt.Errorf("%s: missing required column %q", t.name, c)
		}
	}
	return nil
}

// next returns the next record or io.EOF.
func (t *table) next() ([]string, error) {
	rec, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: read row %d: %w", t.name, t.row+1, err)
	}
	t.row++
	return rec, nil
}

func (t *table) get(rec []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// naTokens are the cell values pandas reads as missing by default.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// nullable is get with placeholder cells such as NULL or N/A mapped to "".
func (t *table) nullable(rec []string, col string) string {
	v := t.get(rec, col)
	if _, na := naTokens[strings.TrimSpace(v)]; na {
		return ""
	}
	return v
}

// LoadUsers reads a users CSV into identity records. Only the id column is
// required; email, phone and address default to missing.
func LoadUsers(path string) ([]identity.Record[int64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}
	defer f.Close()
	return ReadUsers(f, filepath.Base(path))
}

// ReadUsers is LoadUsers over an arbitrary reader.
func ReadUsers(r io.Reader, name string) ([]identity.Record[int64], error) {
	t, err := openTable(r, name)
	if err != nil {
		return nil, err
	}
	if err := t.require("id"); err != nil {
		return nil, err
	}
	var users []identity.Record[int64]
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		id, err := parseInt("id", t.get(rec, "id"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", name, t.row, err)
		}
		users = append(users, identity.Record[int64]{
			ID:      id,
			Email:   t.nullable(rec, "email"),
			Phone:   t.nullable(rec, "phone"),
			Address: t.nullable(rec, "address"),
		})
	}
	return users, nil
}

// LoadOrders reads an orders CSV.
func LoadOrders(path string) ([]Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open orders: %w", err)
	}
	defer f.Close()
	return ReadOrders(f, filepath.Base(path))
}

// ReadOrders is LoadOrders over an arbitrary reader.
func ReadOrders(r io.Reader, name string) ([]Order, error) {
	t, err := openTable(r, name)
	if err != nil {
		return nil, err
	}
	if err := t.require("user_id", "book_id", "quantity", "unit_price"); err != nil {
		return nil, err
	}
	var orders []Order
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		uid, err := parseInt("user_id", t.get(rec, "user_id"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", name, t.row, err)
		}
		var qty int64
		if q := strings.TrimSpace(t.get(rec, "quantity")); q != "" {
			if qty, err = parseInt("quantity", q); err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", name, t.row, err)
			}
		}
		orders = append(orders, Order{
			ID:        strings.TrimSpace(t.get(rec, "id")),
			UserID:    uid,
			BookID:    strings.TrimSpace(t.get(rec, "book_id")),
			Quantity:  int(qty),
			UnitPrice: t.get(rec, "unit_price"),
			Timestamp: t.get(rec, "timestamp"),
		})
	}
	return orders, nil
}
