package mega65

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// History is a small SQLite catalog of completed conversions, keyed by
// the SHA1 of the source image.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the catalog at file.
func OpenHistory(file string) (*History, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, source TEXT NOT NULL, colors INTEGER, reduced INTEGER NOT NULL, bitmap TEXT NOT NULL, disk TEXT NOT NULL, loader TEXT NOT NULL, created INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	return &History{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Conversion is one catalog row. Colors is null when the encoder
// diagnostics carried no count; Loader is empty when none was shipped.
type Conversion struct {
	SHA1    string
	Source  string
	Colors  sql.NullInt64
	Reduced bool
	Bitmap  string
	Disk    string
	Loader  string
	Created time.Time
}

// Record upserts a conversion, replacing any earlier run of the same
// source image.
func (h *History) Record(conv Conversion) error {
	created := conv.Created
	if created.IsZero() {
		created = time.Now()
	}

	if _, err := h.db.Exec("INSERT OR REPLACE INTO conversion (sha1, source, colors, reduced, bitmap, disk, loader, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		conv.SHA1, conv.Source, conv.Colors, conv.Reduced, conv.Bitmap, conv.Disk, conv.Loader, created.Unix()); err != nil {
		return err
	}
	return nil
}

// List returns all conversions, newest first.
func (h *History) List() ([]Conversion, error) {
	rows, err := h.db.Query("SELECT sha1, source, colors, reduced, bitmap, disk, loader, created FROM conversion ORDER BY created DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []Conversion
	for rows.Next() {
		var conv Conversion
		var created int64
		if err := rows.Scan(&conv.SHA1, &conv.Source, &conv.Colors, &conv.Reduced, &conv.Bitmap, &conv.Disk, &conv.Loader, &created); err != nil {
			return nil, err
		}
		conv.Created = time.Unix(created, 0)
		convs = append(convs, conv)
	}

	return convs, rows.Err()
}

// hashFile computes the catalog key for a source image.
func hashFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}
