package byteview

import (
	"database/sql"
	"fmt"
	"image"
	_ "image/gif" // register image formats for ImportImage
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bodgit/byteview/palette"
	"github.com/bodgit/byteview/raster"
	_ "github.com/mattn/go-sqlite3"
)

// PaletteDB stores named palettes and a log of rendered images.
type PaletteDB struct {
	db *sql.DB
}

type PaletteInfo struct {
	Name   string
	Colors int
}

type RenderRecord struct {
	Source   string
	Checksum string
	Depth    raster.BitDepth
	Palette  string
	Width    int
	Height   int
}

func NewPaletteDB(file string) (*PaletteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, colors BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS render (id INTEGER PRIMARY KEY NOT NULL, source TEXT NOT NULL, checksum TEXT NOT NULL, depth INTEGER NOT NULL, palette TEXT, width INTEGER NOT NULL, height INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &PaletteDB{
		db: db,
	}, nil
}

func (db *PaletteDB) Close() error {
	return db.db.Close()
}

func (db *PaletteDB) SavePalette(name string, p raster.Palette) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO palette (name, colors) VALUES (?, ?)", name, palette.Encode(p)); err != nil {
		return err
	}
	return nil
}

// FindPalette returns the palette stored under name, or nil if there isn't
// one.
func (db *PaletteDB) FindPalette(name string) (raster.Palette, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT colors FROM palette WHERE name = ?", name).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return palette.Decode(b)
	default:
		return nil, err
	}
}

func (db *PaletteDB) DeletePalette(name string) error {
	_, err := db.db.Exec("DELETE FROM palette WHERE name = ?", name)
	return err
}

func (db *PaletteDB) ListPalettes() ([]PaletteInfo, error) {
	rows, err := db.db.Query("SELECT name, length(colors) FROM palette ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var palettes []PaletteInfo
	for rows.Next() {
		var info PaletteInfo
		if err := rows.Scan(&info.Name, &info.Colors); err != nil {
			return nil, err
		}
		info.Colors /= 4
		palettes = append(palettes, info)
	}
	return palettes, rows.Err()
}

// ImportImage derives a palette of n colors from the image in file and stores
// it under name.
func (db *PaletteDB) ImportImage(name, file string, n int) (raster.Palette, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	p, err := palette.FromImage(m, n)
	if err != nil {
		return nil, err
	}

	if err := db.SavePalette(name, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (db *PaletteDB) RecordRender(r RenderRecord) error {
	var p sql.NullString
	if r.Palette != "" {
		p.String = r.Palette
		p.Valid = true
	}
	_, err := db.db.Exec("INSERT INTO render (source, checksum, depth, palette, width, height) VALUES (?, ?, ?, ?, ?, ?)", r.Source, r.Checksum, r.Depth.BitsPerPixel(), p, r.Width, r.Height)
	return err
}

func (db *PaletteDB) Renders() ([]RenderRecord, error) {
	rows, err := db.db.Query("SELECT source, checksum, depth, palette, width, height FROM render ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var r RenderRecord
		var bits int
		var p sql.NullString
		if err := rows.Scan(&r.Source, &r.Checksum, &bits, &p, &r.Width, &r.Height); err != nil {
			return nil, err
		}
		for _, d := range raster.Depths {
			if d.BitsPerPixel() == bits {
				r.Depth = d
			}
		}
		r.Palette = p.String
		records = append(records, r)
	}
	return records, rows.Err()
}
