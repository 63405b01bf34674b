/*
Package raster renders an arbitrary byte sequence as an image so that binary
data can be inspected visually.

Each byte, or group of bits within a byte, is mapped to exactly one pixel
according to a BitDepth. Indexed depths (1, 2, 4, 8 and 16 bits per pixel) look
the color up in a Palette, 32 bits per pixel assembles the color directly from
the source bytes.

The pixels are laid out row-major into a near-square Framebuffer. Address
performs the inverse, recovering the source byte offset and bit index that
produced any pixel of the raster.
*/
package raster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidDepth is returned when no bit depth has been selected.
	ErrInvalidDepth = errors.New("raster: invalid bit depth")
	// ErrUnsupportedDepth is returned for a bit depth with no packing rule.
	ErrUnsupportedDepth = errors.New("raster: unsupported bit depth")
	// ErrPaletteTooSmall is returned when a color index falls outside the
	// supplied palette.
	ErrPaletteTooSmall = errors.New("raster: palette too small")
)

// BitDepth is the number of source bits consumed to produce one pixel.
type BitDepth int

// The supported bit depths. Invalid is the zero value and means no depth has
// been selected.
const (
	Invalid BitDepth = iota
	OneBpp
	TwoBpp
	FourBpp
	EightBpp
	SixteenBpp
	TwentyFourBpp
	ThirtyTwoBpp
)

var bitsPerPixel = [...]int{
	Invalid:       0,
	OneBpp:        1,
	TwoBpp:        2,
	FourBpp:       4,
	EightBpp:      8,
	SixteenBpp:    16,
	TwentyFourBpp: 24,
	ThirtyTwoBpp:  32,
}

// Depths lists every valid bit depth in ascending order.
var Depths = []BitDepth{OneBpp, TwoBpp, FourBpp, EightBpp, SixteenBpp, TwentyFourBpp, ThirtyTwoBpp}

func (d BitDepth) valid() bool {
	return d > Invalid && d <= ThirtyTwoBpp
}

// BitsPerPixel returns the number of bits that make up one pixel, or 0 for an
// invalid depth.
func (d BitDepth) BitsPerPixel() int {
	if !d.valid() {
		return 0
	}
	return bitsPerPixel[d]
}

func (d BitDepth) Indexed() bool {
	return d >= OneBpp && d <= SixteenBpp
}

// PaletteSize returns the number of colors required to cover every index the
// depth can produce, or 0 if the depth doesn't use a palette.
func (d BitDepth) PaletteSize() int {
	if !d.Indexed() {
		return 0
	}
	return 1 << uint(d.BitsPerPixel())
}

func (d BitDepth) String() string {
	if !d.valid() {
		return "invalid"
	}
	return strconv.Itoa(d.BitsPerPixel()) + "bpp"
}

// ParseBitDepth parses a depth given either as a bare number of bits, "8", or
// with a suffix, "8bpp".
func ParseBitDepth(s string) (BitDepth, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "bpp"))
	if err != nil {
		return Invalid, fmt.Errorf("%w: %q", ErrInvalidDepth, s)
	}
	for _, d := range Depths {
		if d.BitsPerPixel() == n {
			return d, nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrInvalidDepth, s)
}

type Palette []uint32

// ProgressFunc receives a completion percentage between 0 and 99 at each
// checkpoint of a long running operation.
type ProgressFunc func(percent int)

func (f ProgressFunc) report(percent int) {
	if f != nil {
		f(percent)
	}
}
