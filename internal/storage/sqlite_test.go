package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// Helper function to create a temporary test database
func setupTestDB(t *testing.T) (*DBClient, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_buns.sqlite3")
	client, err := NewDBClientWithPath(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
	})
	return client, dbPath
}

func embeddedEntries(t *testing.T) []catalog.Entry {
	t.Helper()

	cat, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)
	return cat.Entries()
}

func TestNewDBClientWithPath(t *testing.T) {
	client, dbPath := setupTestDB(t)
	require.NotNil(t, client.DB)
	require.NotNil(t, client.db)

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")

	n, err := client.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewDBClientWithPath_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "buns.sqlite3")
	client, err := NewDBClientWithPath(path)
	require.NoError(t, err)
	defer client.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReplaceAll_RoundTrip(t *testing.T) {
	client, _ := setupTestDB(t)
	want := embeddedEntries(t)

	require.NoError(t, client.ReplaceAll(want))

	got, err := client.Entries()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReplaceAll_Replaces(t *testing.T) {
	client, _ := setupTestDB(t)

	require.NoError(t, client.ReplaceAll(embeddedEntries(t)))
	require.NoError(t, client.ReplaceAll([]catalog.Entry{
		{Filename: "only.jpg", Name: catalog.SingleName("Solo"), Angles: clock.AngleOf(clock.Query{Hour: 2, Minute: 10})},
	}))

	got, err := client.Entries()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only.jpg", got[0].Filename)
	assert.Equal(t, "Solo", got[0].Name.String())
	assert.Nil(t, got[0].Source)
	assert.Nil(t, got[0].Focus)
}

func TestReplaceAll_KeepsOrder(t *testing.T) {
	client, _ := setupTestDB(t)

	entries := []catalog.Entry{
		{Filename: "z.jpg", Angles: clock.AngleOf(clock.Query{Hour: 1})},
		{Filename: "a.jpg", Angles: clock.AngleOf(clock.Query{Hour: 2})},
		{Filename: "m.jpg", Angles: clock.AngleOf(clock.Query{Hour: 3})},
	}
	require.NoError(t, client.ReplaceAll(entries))

	got, err := client.Entries()
	require.NoError(t, err)
	names := []string{}
	for _, e := range got {
		names = append(names, e.Filename)
	}
	assert.Equal(t, []string{"z.jpg", "a.jpg", "m.jpg"}, names)
}

func TestReplaceAll_RejectsDuplicates(t *testing.T) {
	client, _ := setupTestDB(t)
	require.NoError(t, client.ReplaceAll(embeddedEntries(t)))

	err := client.ReplaceAll([]catalog.Entry{
		{Filename: "same.jpg"},
		{Filename: "same.jpg"},
	})
	assert.Error(t, err)

	// the failed transaction left the old catalog in place
	n, err := client.Count()
	require.NoError(t, err)
	assert.Equal(t, len(embeddedEntries(t)), n)
}

func TestNilClient(t *testing.T) {
	var c *DBClient
	assert.NoError(t, c.Close())
	assert.Error(t, c.ReplaceAll(nil))
	_, err := c.Entries()
	assert.Error(t, err)
	_, err = c.Count()
	assert.Error(t, err)
}

func TestSource_LoadsExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.sqlite3")
	want := embeddedEntries(t)

	n, err := Export(path, want)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	cat, err := catalog.Load(Source{Path: path})
	require.NoError(t, err)
	assert.Equal(t, want, cat.Entries())
	assert.Equal(t, "sqlite "+path, Source{Path: path}.Describe())
}

func TestSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.sqlite3")

	_, err := catalog.Load(Source{Path: path})
	require.Error(t, err)
	assert.True(t, catalog.IsKind(err, catalog.KindSource))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "loading must not create the database")
}

func TestSource_LeavesForeignDatabaseAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.sqlite3")

	client, err := open(path)
	require.NoError(t, err)
	require.NoError(t, client.DB.Exec("CREATE TABLE other (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, client.Close())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = catalog.Load(Source{Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBunsTable)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	client, err = open(path)
	require.NoError(t, err)
	defer client.Close()

	var tables []string
	require.NoError(t, client.DB.Raw("SELECT name FROM sqlite_master WHERE type = 'table'").Scan(&tables).Error)
	assert.Equal(t, []string{"other"}, tables)
}

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	_, path := setupTestDB(t)

	client, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer client.Close()

	assert.Error(t, client.ReplaceAll(embeddedEntries(t)))
}

func TestSource_EmptyDatabase(t *testing.T) {
	_, path := setupTestDB(t)

	_, err := catalog.Load(Source{Path: path})
	assert.ErrorIs(t, err, catalog.ErrEmpty)
}

func TestExport_ValidatesFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sqlite3")

	_, err := Export(path, []catalog.Entry{{Filename: "odd.jpg", Angles: clock.Angles{Hour: 90, Minute: 180}}})
	assert.ErrorIs(t, err, catalog.ErrUnrealizable)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
