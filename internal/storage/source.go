package storage

import (
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
)

// Source reads a catalog from an existing SQLite database. It never writes,
// and a missing file is an error rather than an empty catalog.
type Source struct {
	Path string
}

func (s Source) Load() ([]catalog.Entry, error) {
	client, err := OpenReadOnly(s.Path)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Entries()
}

func (s Source) Describe() string { return "sqlite " + s.Path }

// Export writes entries to the database at path, replacing whatever catalog
// it held. Entries are validated first so a bad catalog never reaches disk.
func Export(path string, entries []catalog.Entry) (int, error) {
	cat, err := catalog.Load(catalog.Static(entries))
	if err != nil {
		return 0, err
	}

	client, err := NewDBClientWithPath(path)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	if err := client.ReplaceAll(cat.Entries()); err != nil {
		return 0, err
	}
	return client.Count()
}
