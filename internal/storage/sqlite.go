package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/logger"
)

const DefaultDBFile = "buns.sqlite3"
const errDBClientNil = "db client is nil"

// ErrNoBunsTable is returned by OpenReadOnly for databases that were never
// written by Export.
var ErrNoBunsTable = errors.New("no buns table")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Bun is one catalog row. Position keeps the catalog order, which decides
// ties between equally good matches.
type Bun struct {
	ID        string   `gorm:"primaryKey;type:varchar(36)"`
	Position  int      `gorm:"uniqueIndex:idx_bun_position"`
	Filename  string   `gorm:"uniqueIndex:idx_bun_filename;not null"`
	NameKind  string   `gorm:"type:varchar(8)"`
	Names     []string `gorm:"serializer:json"`
	Hour      float64
	Minute    float64
	FocusX    *float64
	FocusY    *float64
	Author    string
	URL       string
	Platform  string
	CreatedAt time.Time
}

// gormWriter sends gorm's own warnings (slow queries, errors) to our logger.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warnf(format, args...)
}

// NewDBClientWithPath opens (creating if needed) the database at dbPath and
// migrates the schema.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	client, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := client.DB.AutoMigrate(&Bun{}); err != nil {
		client.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return client, nil
}

// OpenReadOnly opens an existing catalog database without changing it. The
// file must exist and hold a buns table.
func OpenReadOnly(dbPath string) (*DBClient, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}

	dsn := (&url.URL{Scheme: "file", Path: dbPath, RawQuery: "mode=ro"}).String()
	client, err := open(dsn)
	if err != nil {
		return nil, err
	}

	if !client.DB.Migrator().HasTable(&Bun{}) {
		client.Close()
		return nil, fmt.Errorf("%s is not a bun catalog: %w", dbPath, ErrNoBunsTable)
	}
	return client, nil
}

func open(dsn string) (*DBClient, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: logger.Named("sqlite")}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ReplaceAll swaps the stored catalog for entries in one transaction.
func (c *DBClient) ReplaceAll(entries []catalog.Entry) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}

	rows := make([]Bun, len(entries))
	for i, e := range entries {
		rows[i] = toRow(i, e)
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Bun{}).Error; err != nil {
			return fmt.Errorf("clearing buns: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("inserting buns: %w", err)
		}
		return nil
	})
}

// Entries reads the stored catalog in position order.
func (c *DBClient) Entries() ([]catalog.Entry, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var rows []Bun
	if err := c.DB.Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying buns: %w", err)
	}

	out := make([]catalog.Entry, len(rows))
	for i, r := range rows {
		out[i] = r.toEntry()
	}
	return out, nil
}

// Count returns how many buns are stored.
func (c *DBClient) Count() (int, error) {
	if c == nil || c.DB == nil {
		return 0, errors.New(errDBClientNil)
	}
	var n int64
	if err := c.DB.Model(&Bun{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting buns: %w", err)
	}
	return int(n), nil
}

func toRow(pos int, e catalog.Entry) Bun {
	row := Bun{
		ID:       uuid.NewString(),
		Position: pos,
		Filename: e.Filename,
		NameKind: e.Name.Kind().String(),
		Names:    e.Name.Candidates(),
		Hour:     e.Angles.Hour,
		Minute:   e.Angles.Minute,
	}
	if e.Focus != nil {
		x, y := e.Focus.X, e.Focus.Y
		row.FocusX, row.FocusY = &x, &y
	}
	if e.Source != nil {
		row.Author, row.URL, row.Platform = e.Source.Author, e.Source.URL, e.Source.Platform
	}
	return row
}

func (r Bun) toEntry() catalog.Entry {
	e := catalog.Entry{
		Filename: r.Filename,
		Angles:   clock.Angles{Hour: r.Hour, Minute: r.Minute},
	}

	switch {
	case r.NameKind == catalog.NameSingle.String() && len(r.Names) > 0:
		e.Name = catalog.SingleName(r.Names[0])
	case r.NameKind == catalog.NameChoice.String():
		e.Name = catalog.ChoiceName(r.Names...)
	default:
		e.Name = catalog.NoName()
	}

	if r.FocusX != nil && r.FocusY != nil {
		e.Focus = &catalog.FocusPoint{X: *r.FocusX, Y: *r.FocusY}
	}
	if r.Author != "" || r.URL != "" || r.Platform != "" {
		e.Source = &catalog.Attribution{Author: r.Author, URL: r.URL, Platform: r.Platform}
	}
	return e
}
