package dataset

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSaveLoad(t *testing.T) {
	registry := t.TempDir()
	src := t.TempDir()

	d, err := New(registry, "DATA1", src, "first drop")
	require.NoError(t, err)
	_, err = uuid.Parse(d.ID)
	require.NoError(t, err)
	require.NoError(t, d.Save())

	got, err := Open(registry, "DATA1")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, src, got.Dir)
	assert.Equal(t, "first drop", got.Description)
	assert.Equal(t, filepath.Join(registry, "DATA1"), got.RootDir())
}

func TestAddReport(t *testing.T) {
	d, err := New(t.TempDir(), "d", t.TempDir(), "")
	require.NoError(t, err)

	id, path := d.NewReportPath(".md")
	assert.Equal(t, filepath.Join(d.ReportsDir(), id+".md"), path)
	assert.Empty(t, d.Reports)

	ref := d.AddReport(id, path)
	require.NoError(t, d.Save())

	got, err := Load(d.RootDir())
	require.NoError(t, err)
	require.Len(t, got.Reports, 1)
	assert.Equal(t, ref.ID, got.Reports[0].ID)
	assert.Equal(t, path, got.Reports[0].Path)
}

func TestList(t *testing.T) {
	registry := t.TempDir()
	for _, n := range []string{"b", "a"} {
		d, err := New(registry, n, t.TempDir(), "")
		require.NoError(t, err)
		require.NoError(t, d.Save())
	}
	names, err := List(registry)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	names, err = List(filepath.Join(registry, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("DATA_1.v2"))
	for _, bad := range []string{"", "../x", "a/b", ".hidden"} {
		assert.Error(t, ValidateName(bad), bad)
	}
	_, err := Open(t.TempDir(), "nope")
	assert.ErrorContains(t, err, "dataset not found")
}
