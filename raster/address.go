package raster

import "fmt"

// SourceAddress locates the data that produced a pixel. Bit is the index of
// the first bit within the byte at Offset, or -1 when the pixel covers whole
// bytes.
type SourceAddress struct {
	Offset uint64
	Bit    int
}

func (a SourceAddress) String() string {
	return FormatAddress(a.Offset, a.Bit)
}

// Address returns the source address of the pixel at (x, y) in a raster of
// the given width and height rendered with depth d. It relies only on the
// position, never on the pixel data.
//
// Address panics if (x, y) lies outside the raster.
func Address(width, height, x, y int, d BitDepth) (SourceAddress, error) {
	if !d.valid() {
		return SourceAddress{}, ErrInvalidDepth
	}
	if !InBounds(width, height, x, y) {
		panic(fmt.Sprintf("raster: point (%d, %d) outside %dx%d raster", x, y, width, height))
	}

	bits := uint64(d.BitsPerPixel())
	if bits < 8 {
		address := uint64(width)*bits*uint64(y) + uint64(x)*bits
		return SourceAddress{Offset: address / 8, Bit: int(address % 8)}, nil
	}

	bytes := bits / 8
	return SourceAddress{Offset: uint64(width)*bytes*uint64(y) + uint64(x)*bytes, Bit: -1}, nil
}

// InBounds reports whether (x, y) lies within a width by height raster.
func InBounds(width, height, x, y int) bool {
	return width > 0 && height > 0 && 0 <= x && x < width && 0 <= y && y < height
}

// FormatAddress formats a source address as eight upper-case hex digits,
// followed by the bit index if it isn't negative, for example 0x0000001A:4.
func FormatAddress(offset uint64, bit int) string {
	if bit >= 0 {
		return fmt.Sprintf("0x%08X:%d", offset, bit)
	}
	return fmt.Sprintf("0x%08X", offset)
}

var pixelUnits = []string{"pixels", "kilopixels", "megapixels", "gigapixels"}

// FormatPixelCount formats a pixel count with two decimal places scaled to
// the largest fitting unit, for example "1.50 megapixels".
func FormatPixelCount(n int) string {
	v := float64(n)
	unit := 0
	for v >= 1000 && unit < len(pixelUnits)-1 {
		v /= 1000
		unit++
	}
	return fmt.Sprintf("%.2f %s", v, pixelUnits[unit])
}
