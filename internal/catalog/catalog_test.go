package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/bookstats/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const booksYAML = `- :id: 1
  :title: Dune
  :author: Frank Herbert
  :genre: Science Fiction
  :publisher: Chilton
  :year: 1965
  :price: "$9.99"
- :id: 2
  :title: Good Omens
  :author: Terry Pratchett, Neil Gaiman
  :genre: Fantasy
  :publisher: Gollancz
  :year: 1990
  :price: "€12.50"
`

const booksLegacy = `[
  {:id=>1, :title=>"Dune", :author=>"Frank Herbert", :genre=>"Science Fiction", :publisher=>"Chilton", :year=>1965, :price=>"$9.99"},
  {:id=>"b-2", :title=>"Good Omens", :author=>"Terry Pratchett, Neil Gaiman", :genre=>"Fantasy", :publisher=>"Gollancz", :year=>1990, :price=>12.5}
]`

func TestLoadBooksYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "books.yaml", booksYAML)
	books, err := LoadBooks(p)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, Scalar("1"), books[0].ID)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, Scalar("1965"), books[0].Year)
	assert.Equal(t, Scalar("$9.99"), books[0].Price)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", books[1].Author)
}

func TestLoadBooksLegacyJSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "task1_d.json", booksLegacy)
	books, err := LoadBooks(p)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, Scalar("1"), books[0].ID)
	assert.Equal(t, Scalar("b-2"), books[1].ID)
	assert.Equal(t, Scalar("12.5"), books[1].Price)
	year, ok := books[1].YearValue()
	assert.True(t, ok)
	assert.Equal(t, 1990, year)
}

func TestLoadBooksToleratesOddYears(t *testing.T) {
	in := `- :id: 1
  :title: Anonymous Pamphlet
  :year: unknown
- :id: 2
  :title: Untitled
  :year: ""
- :id: 3
  :title: Reprint
  :year: 1999.0
`
	books, err := LoadBooks(writeFile(t, t.TempDir(), "books.yaml", in))
	require.NoError(t, err)
	require.Len(t, books, 3)

	_, ok := books[0].YearValue()
	assert.False(t, ok)
	_, ok = books[1].YearValue()
	assert.False(t, ok)
	year, ok := books[2].YearValue()
	assert.True(t, ok)
	assert.Equal(t, 1999, year)
}

func TestLoadBooksErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadBooks(writeFile(t, dir, "books.xml", "<books/>"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = LoadBooks(writeFile(t, dir, "broken.json", "{:id=>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestReadUsers(t *testing.T) {
	in := "ID,name,Email,phone,address\n" +
		"1,Ann,ann@x.com,555-0100,10 Oak Ave\n" +
		"2,Bo,,,\n" +
		"3.0,Cy,cy@x.com\n"
	users, err := ReadUsers(strings.NewReader(in), "users.csv")
	require.NoError(t, err)
	assert.Equal(t, []identity.Record[int64]{
		{ID: 1, Email: "ann@x.com", Phone: "555-0100", Address: "10 Oak Ave"},
		{ID: 2},
		{ID: 3, Email: "cy@x.com"},
	}, users)
}

func TestReadUsersPlaceholdersDoNotLink(t *testing.T) {
	in := "id,email,phone,address\n" +
		"1,a@x.com,N/A,NULL\n" +
		"2,b@y.com,N/A,NULL\n" +
		"3,c@z.com,,nan\n" +
		"4,d@w.com,,nan\n" +
		"5,e@v.com,<NA>, None \n"
	users, err := ReadUsers(strings.NewReader(in), "users.csv")
	require.NoError(t, err)
	require.Len(t, users, 5)
	for _, u := range users {
		assert.Empty(t, u.Phone, "user %d", u.ID)
		assert.Empty(t, u.Address, "user %d", u.ID)
	}

	res := identity.Resolve(users)
	assert.Equal(t, 5, res.Len())
	for _, u := range users {
		assert.Equal(t, u.ID, res.Canonical(u.ID))
	}
}

func TestReadUsersRejectsBadIDs(t *testing.T) {
	_, err := ReadUsers(strings.NewReader("id,email\nabc,a@b\n"), "users.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	_, err = ReadUsers(strings.NewReader("email\na@b\n"), "users.csv")
	assert.ErrorContains(t, err, `missing required column "id"`)

	_, err = ReadUsers(strings.NewReader(""), "users.csv")
	assert.ErrorContains(t, err, "empty file")
}

func TestReadOrders(t *testing.T) {
	in := "id,user_id,book_id,quantity,unit_price,timestamp\n" +
		"o1,1,10,2,$5.00,2024-01-02 10:00:00\n" +
		"o2,2,11,,€3,\"2024-01-03, 11:00\"\n"
	orders, err := ReadOrders(strings.NewReader(in), "orders.csv")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, Order{ID: "o1", UserID: 1, BookID: "10", Quantity: 2, UnitPrice: "$5.00", Timestamp: "2024-01-02 10:00:00"}, orders[0])
	assert.Equal(t, 0, orders[1].Quantity)
	assert.Equal(t, "2024-01-03, 11:00", orders[1].Timestamp)
}

func TestReadOrdersBadQuantity(t *testing.T) {
	in := "user_id,book_id,quantity,unit_price\n1,2,two,$1\n"
	_, err := ReadOrders(strings.NewReader(in), "orders.csv")
	assert.ErrorContains(t, err, "quantity")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "books.yml", booksYAML)
	writeFile(t, dir, "orders.csv", "id,user_id,book_id,quantity,unit_price,timestamp\n1,1,1,1,$9.99,2024-01-01\n")
	writeFile(t, dir, "users.csv", "id,email,phone,address\n1,a@x.com,,\n")

	ds, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, ds.Books, 2)
	assert.Len(t, ds.Orders, 1)
	assert.Len(t, ds.Users, 1)
	assert.Equal(t, dir, ds.Dir)
}

func TestLoadDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "books.yaml", booksYAML)
	_, err := LoadDir(dir)
	assert.ErrorContains(t, err, "orders.csv")
}
