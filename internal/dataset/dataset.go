// Package dataset keeps a registry of named bookstore datasets and the
// reports generated from them.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/KaramelBytes/bookstats/internal/utils"
	"github.com/google/uuid"
)

const fileName = "dataset.json"

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ReportRef points at a report written for a dataset.
type ReportRef struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Dataset is a registered source directory persisted as dataset.json.
type Dataset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Dir         string      `json:"dir"`
	Description string      `json:"description"`
	Reports     []ReportRef `json:"reports"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Not serialized: registry directory holding dataset.json
	rootDir string
}

// ValidateName rejects names that are not safe as directory names.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid dataset name %q", name)
	}
	return nil
}

// New constructs an in-memory dataset rooted at <registry>/<name>. Call Save to persist.
func New(registry, name, dir, description string) (*Dataset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dir: %w", err)
	}
	now := time.Now()
	return &Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		Dir:         abs,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     filepath.Join(registry, name),
	}, nil
}

// Load reads dataset.json from rootDir.
func Load(rootDir string) (*Dataset, error) {
	path := filepath.Join(rootDir, fileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dataset not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var d Dataset
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	d.rootDir = rootDir
	return &d, nil
}

// Open loads the dataset called name from registry.
func Open(registry, name string) (*Dataset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return Load(filepath.Join(registry, name))
}

// RootDir returns the registry directory of this dataset.
func (d *Dataset) RootDir() string { return d.rootDir }

// ReportsDir is where generated reports for this dataset are written.
func (d *Dataset) ReportsDir() string { return filepath.Join(d.rootDir, "reports") }

// Save writes dataset.json using atomic write.
func (d *Dataset) Save() error {
	if d.rootDir == "" {
		return errors.New("dataset root directory not set")
	}
	if err := utils.EnsureDir(d.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	d.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(d)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(d.rootDir, fileName), data)
}

// NewReportPath allocates an id and file path for a new report with the
// given extension (".md", ".json", ...). Nothing is recorded until AddReport.
func (d *Dataset) NewReportPath(ext string) (id, path string) {
	id = uuid.NewString()
	return id, filepath.Join(d.ReportsDir(), id+ext)
}

// AddReport records a written report.
func (d *Dataset) AddReport(id, path string) ReportRef {
	ref := ReportRef{ID: id, Path: path, CreatedAt: time.Now()}
	d.Reports = append(d.Reports, ref)
	d.UpdatedAt = ref.CreatedAt
	return ref
}

// List returns the names of all datasets in registry, sorted.
func List(registry string) ([]string, error) {
	entries, err := os.ReadDir(registry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(registry, e.Name(), fileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
