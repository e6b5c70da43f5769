// Package catalog loads the books, orders and users exports of a bookstore
// dataset directory.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bookstats/internal/identity"
	"gopkg.in/yaml.v3"
)

// ErrUnsupported indicates a file format that no decoder handles.
var ErrUnsupported = errors.New("unsupported file format")

// Scalar is a string field that also accepts numbers and booleans in the
// source file, e.g. `id: 17` or `"price": 12.5`.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*s = Scalar(num.String())
		return nil
	}
	return fmt.Errorf("expected string or number, got %s", b)
}

func (s *Scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar, got %s", n.Line, n.Tag)
	}
	if n.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(n.Value)
	return nil
}

// Book is one catalog entry.
type Book struct {
	ID        Scalar `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Author    string `yaml:"author" json:"author"`
	Genre     string `yaml:"genre" json:"genre"`
	Publisher string `yaml:"publisher" json:"publisher"`
	Year      Scalar `yaml:"year" json:"year"`
	Price     Scalar `yaml:"price" json:"price"`
}

// YearValue returns the publication year as an integer. Blank or
// non-numeric years, which some exports carry, report false.
func (b Book) YearValue() (int, bool) {
	n, err := parseInt("year", string(b.Year))
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Order is one purchase line.
type Order struct {
	ID        string
	UserID    int64
	BookID    string
	Quantity  int
	UnitPrice string
	Timestamp string
}

// Dataset bundles the three exports of one dataset directory.
type Dataset struct {
	Dir    string
	Books  []Book
	Orders []Order
	Users  []identity.Record[int64]
}

var (
	booksNames  = []string{"books.yaml", "books.yml", "books.json"}
	ordersNames = []string{"orders.csv"}
	usersNames  = []string{"users.csv"}
)

// LoadDir loads books, orders and users from dir.
func LoadDir(dir string) (*Dataset, error) {
	booksPath, err := findFile(dir, booksNames)
	if err != nil {
		return nil, err
	}
	ordersPath, err := findFile(dir, ordersNames)
	if err != nil {
		return nil, err
	}
	usersPath, err := findFile(dir, usersNames)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Dir: dir}
	if ds.Books, err = LoadBooks(booksPath); err != nil {
		return nil, err
	}
	if ds.Orders, err = LoadOrders(ordersPath); err != nil {
		return nil, err
	}
	if ds.Users, err = LoadUsers(usersPath); err != nil {
		return nil, err
	}
	return ds, nil
}

func findFile(dir string, names []string) (string, error) {
	for _, n := range names {
		p := filepath.Join(dir, n)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s: none of %s found", dir, strings.Join(names, ", "))
}

func parseInt(field, v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("%s is empty", field)
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	// pandas exports integer columns with NaNs as floats ("17.0")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("%s %q is not an integer", field, v)
	}
	return int64(f), nil
}
