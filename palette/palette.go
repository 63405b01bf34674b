/*
Package palette builds the color palettes used to render indexed bit depths.

Colors are 32-bit ARGB values. A palette can be a plain grayscale ramp, the
default for a given bit depth, or derived from a reference image by median cut
quantization.

Palettes are stored as a big-endian 32-bit value for each color with no header,
so the encoded length is always four times the number of colors.
*/
package palette

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/byteview/raster"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	opaque    = 0xff000000
	colorSize = 4
)

var (
	errBadLength = errors.New("palette: encoded length not a multiple of 4")
	errNoColors  = errors.New("palette: number of colors must be at least 1")
)

func ToColor(v uint32) color.NRGBA {
	return color.NRGBA{
		R: byte(v >> 16),
		G: byte(v >> 8),
		B: byte(v),
		A: byte(v >> 24),
	}
}

func FromColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// Grayscale returns n opaque grays evenly spaced from black to white.
func Grayscale(n int) raster.Palette {
	p := make(raster.Palette, n)
	if n == 1 {
		p[0] = opaque
		return p
	}
	for i := range p {
		y := uint32(i * 0xff / (n - 1))
		p[i] = opaque | y<<16 | y<<8 | y
	}
	return p
}

// rgb565 expands every 16-bit RGB565 value into a full color so that 16-bit
// data rendered with it shows its channels rather than a gray ramp.
func rgb565() raster.Palette {
	p := make(raster.Palette, 1<<16)
	for i := range p {
		// Replicate the top bits into the low bits to reach full intensity
		r := uint32(i>>11) & 0x1f
		g := uint32(i>>5) & 0x3f
		b := uint32(i) & 0x1f
		r = r<<3 | r>>2
		g = g<<2 | g>>4
		b = b<<3 | b>>2
		p[i] = opaque | r<<16 | g<<8 | b
	}
	return p
}

// Default returns the palette used for bit depth d when none is supplied. It
// holds exactly d.PaletteSize() colors and is nil for depths that don't use a
// palette.
func Default(d raster.BitDepth) raster.Palette {
	switch {
	case d == raster.SixteenBpp:
		return rgb565()
	case d.Indexed():
		return Grayscale(d.PaletteSize())
	}
	return nil
}

// FromImage derives a palette of n colors from m using median cut
// quantization. If m holds fewer distinct colors the palette is padded with
// opaque black.
func FromImage(m image.Image, n int) (raster.Palette, error) {
	if n < 1 {
		return nil, errNoColors
	}

	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, n), m)

	p := make(raster.Palette, n)
	for i := range p {
		if i < len(cp) {
			p[i] = FromColor(cp[i])
		} else {
			p[i] = opaque
		}
	}
	return p, nil
}

func Resize(p raster.Palette, n int) raster.Palette {
	out := make(raster.Palette, n)
	if len(p) == 0 {
		return out
	}
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return out
}

func Encode(p raster.Palette) []byte {
	b := make([]byte, len(p)*colorSize)
	for i, c := range p {
		binary.BigEndian.PutUint32(b[i*colorSize:], c)
	}
	return b
}

func Decode(b []byte) (raster.Palette, error) {
	if len(b)%colorSize != 0 {
		return nil, errBadLength
	}
	p := make(raster.Palette, len(b)/colorSize)
	for i := range p {
		p[i] = binary.BigEndian.Uint32(b[i*colorSize:])
	}
	return p, nil
}
