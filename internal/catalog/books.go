package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// BooksDecoder decodes one books file format.
type BooksDecoder interface {
	CanDecode(filename string) bool
	Decode(content []byte) ([]Book, error)
}

var decoders []BooksDecoder

// RegisterBooksDecoder adds a decoder to the registry. The first decoder
// accepting a filename wins.
func RegisterBooksDecoder(d BooksDecoder) {
	decoders = append(decoders, d)
}

func init() {
	RegisterBooksDecoder(yamlBooks{})
	RegisterBooksDecoder(legacyBooks{})
}

// LoadBooks reads path with the first decoder that accepts its name.
func LoadBooks(path string) ([]Book, error) {
	for _, d := range decoders {
		if !d.CanDecode(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read books: %w", err)
		}
		books, err := d.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		return books, nil
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Ruby-style symbol keys, e.g. ":title: Dune".
var symbolKey = regexp.MustCompile(`:(\w+)`)

type yamlBooks struct{}

func (yamlBooks) CanDecode(filename string) bool { return hasExt(filename, ".yaml", ".yml") }

func (yamlBooks) Decode(content []byte) ([]Book, error) {
	clean := symbolKey.ReplaceAll(content, []byte("$1"))
	var books []Book
	if err := yaml.Unmarshal(clean, &books); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return books, nil
}

// Ruby hash rockets, e.g. {:title=>"Dune"}.
var hashRocket = regexp.MustCompile(`:(\w+)=>`)

type legacyBooks struct{}

func (legacyBooks) CanDecode(filename string) bool { return hasExt(filename, ".json") }

func (legacyBooks) Decode(content []byte) ([]Book, error) {
	clean := hashRocket.ReplaceAll(content, []byte(`"$1":`))
	var books []Book
	if err := json.Unmarshal(clean, &books); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return books, nil
}
