/*
Package byteview renders files as images so that binary data can be inspected
visually, and maps pixels of those images back to the file offsets they were
drawn from.
*/
package byteview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/byteview/palette"
	"github.com/bodgit/byteview/raster"
	"github.com/bodgit/byteview/source"
	"github.com/nfnt/resize"
)

var (
	errNoPalette  = errors.New("no such palette")
	errBadScale   = errors.New("scale must be at least 1")
	errOutOfRange = errors.New("coordinate outside image")
)

// RenderOptions controls how data is drawn.
type RenderOptions struct {
	// Depth selects the number of bits per pixel
	Depth raster.BitDepth
	// Palette names a stored palette, the default palette for Depth is
	// used if empty
	Palette string
	// Scale enlarges each pixel to a Scale by Scale square
	Scale int
	// Progress, if set, receives the completion percentage
	Progress raster.ProgressFunc
}

// Viewer renders files using palettes held in a PaletteDB.
type Viewer struct {
	db     *PaletteDB
	dbFile string
	logger *log.Logger
}

func New(file string, logger *log.Logger) (*Viewer, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	db, err := NewPaletteDB(abs)
	if err != nil {
		return nil, err
	}
	return &Viewer{
		db:     db,
		dbFile: abs,
		logger: logger,
	}, nil
}

func (v *Viewer) Close() error {
	return v.db.Close()
}

func (v *Viewer) DB() *PaletteDB {
	return v.db
}

func (v *Viewer) palette(opts RenderOptions) (raster.Palette, error) {
	if opts.Palette == "" {
		return palette.Default(opts.Depth), nil
	}
	p, err := v.db.FindPalette(opts.Palette)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %q", errNoPalette, opts.Palette)
	}
	return p, nil
}

// Render draws the concatenated contents of files and writes the image as a
// PNG to out. If ctx is cancelled the partially drawn image is still written.
func (v *Viewer) Render(ctx context.Context, out string, files []string, opts RenderOptions) (raster.Dimensions, error) {
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Scale < 1 {
		return raster.Dimensions{}, errBadScale
	}

	b, err := source.Open(files...)
	if err != nil {
		return raster.Dimensions{}, err
	}

	p, err := v.palette(opts)
	if err != nil {
		return raster.Dimensions{}, err
	}

	fb, err := raster.Render(ctx, b, opts.Depth, p, opts.Progress)
	if err != nil {
		return raster.Dimensions{}, err
	}
	d := raster.Dimensions{Width: fb.Rect.Dx(), Height: fb.Rect.Dy()}

	var m image.Image = fb
	if opts.Scale > 1 {
		m = resize.Resize(uint(d.Width*opts.Scale), uint(d.Height*opts.Scale), fb, resize.NearestNeighbor)
	}

	if err := writePNG(out, m); err != nil {
		return raster.Dimensions{}, err
	}

	checksum := source.Checksum(b)
	v.logger.Printf("Rendered %d bytes from %q (CRC %s) at %s as %dx%d, %s\n", len(b), files, checksum, opts.Depth, d.Width, d.Height, raster.FormatPixelCount(d.Area()))

	if err := v.db.RecordRender(RenderRecord{
		Source:   strings.Join(files, ","),
		Checksum: checksum,
		Depth:    opts.Depth,
		Palette:  opts.Palette,
		Width:    d.Width,
		Height:   d.Height,
	}); err != nil {
		return raster.Dimensions{}, err
	}

	return d, nil
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := png.Encode(f, m); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Locate returns the formatted source address of the pixel at (x, y) in an
// unscaled image of the given size drawn at depth d.
func Locate(width, height, x, y int, d raster.BitDepth) (string, error) {
	if !raster.InBounds(width, height, x, y) {
		return "", fmt.Errorf("%w: (%d, %d) not within %dx%d", errOutOfRange, x, y, width, height)
	}
	a, err := raster.Address(width, height, x, y, d)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}
