package mmtex

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bodgit/mmtex/texture"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

var errNotCataloged = errors.New("mmtex: texture not in catalog")

// Entry describes a cataloged texture
type Entry struct {
	Path      string
	Digest    string
	Width     int
	Height    int
	Colors    int
	NumImages int32
	Format    string
}

// Catalog records every texture that has been exported along with a
// compressed copy of the original file.
type Catalog struct {
	db      *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCatalog opens or creates the catalog database in file
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, digest TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, num_images INTEGER NOT NULL, format TEXT NOT NULL, original BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, err
	}

	return &Catalog{
		db:      db,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	c.decoder.Close()
	if err := c.encoder.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}

// Record stores t, decoded from the file contents b, under path. Recording
// the same contents again is a no-op.
func (c *Catalog) Record(path string, b []byte, t *texture.Texture) error {
	digest := fmt.Sprintf("%016X", xxhash.Sum64(b))

	var existing string
	switch err := c.db.QueryRow("SELECT digest FROM texture WHERE path = ?", path).Scan(&existing); err {
	case sql.ErrNoRows:
	case nil:
		if existing == digest {
			return nil
		}
	default:
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO texture (path, digest, width, height, colors, num_images, format, original) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		path,
		digest,
		t.Pixels.Width,
		t.Pixels.Height,
		len(t.Palette.Colors(0)),
		t.NumImages,
		t.Pixels.Format.String(),
		c.encoder.EncodeAll(b, nil),
	); err != nil {
		return err
	}

	return nil
}

// Original returns the file contents recorded for path
func (c *Catalog) Original(path string) ([]byte, error) {
	var blob []byte
	switch err := c.db.QueryRow("SELECT original FROM texture WHERE path = ?", path).Scan(&blob); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %s", errNotCataloged, path)
	case nil:
		return c.decoder.DecodeAll(blob, nil)
	default:
		return nil, err
	}
}

// List returns every entry ordered by path
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT path, digest, width, height, colors, num_images, format FROM texture ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Digest, &e.Width, &e.Height, &e.Colors, &e.NumImages, &e.Format); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
