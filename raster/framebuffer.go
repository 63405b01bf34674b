package raster

import (
	"context"
	"image"
	"image/color"
)

const bytesPerPixel = 4

// Framebuffer is a row-major image stored as four bytes per pixel in the
// order blue, green, red, alpha. The colors are not alpha-premultiplied.
type Framebuffer struct {
	Pix    []byte          // Pixel data, B, G, R, A
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewFramebuffer returns a fully transparent black Framebuffer with the given
// bounds.
func NewFramebuffer(r image.Rectangle) *Framebuffer {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Framebuffer{Rect: r}
	}
	return &Framebuffer{
		Pix:    make([]byte, w*bytesPerPixel*h),
		Stride: w * bytesPerPixel,
		Rect:   r,
	}
}

func (f *Framebuffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (f *Framebuffer) Bounds() image.Rectangle {
	return f.Rect
}

func (f *Framebuffer) At(x, y int) color.Color {
	return f.NRGBAAt(x, y)
}

// NRGBAAt returns the color of the pixel at (x, y), or transparent black if
// the point is outside the bounds.
func (f *Framebuffer) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return color.NRGBA{}
	}
	i := f.PixOffset(x, y)
	s := f.Pix[i : i+bytesPerPixel : i+bytesPerPixel]
	return color.NRGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
}

func (f *Framebuffer) ARGBAt(x, y int) uint32 {
	c := f.NRGBAAt(x, y)
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (f *Framebuffer) SetARGB(x, y int, v uint32) {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return
	}
	i := f.PixOffset(x, y)
	s := f.Pix[i : i+bytesPerPixel : i+bytesPerPixel]
	s[0] = byte(v)
	s[1] = byte(v >> 8)
	s[2] = byte(v >> 16)
	s[3] = byte(v >> 24)
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (f *Framebuffer) PixOffset(x, y int) int {
	return (y-f.Rect.Min.Y)*f.Stride + (x-f.Rect.Min.X)*bytesPerPixel
}

// Assemble lays pixels out row-major into a Framebuffer of the given
// dimensions. Cells beyond the end of pixels are left transparent black.
//
// Cancellation is checked before each row; rows not yet written are left
// transparent black and the partial Framebuffer is returned.
func Assemble(ctx context.Context, pixels []uint32, d Dimensions, progress ProgressFunc) *Framebuffer {
	f := NewFramebuffer(d.Rect())

	for y := 0; y < d.Height; y++ {
		if ctx.Err() != nil {
			break
		}
		for x := 0; x < d.Width; x++ {
			if i := y*d.Width + x; i < len(pixels) {
				f.SetARGB(x, y, pixels[i])
			}
		}
		progress.report(y * 100 / d.Height)
	}

	return f
}

// half maps a percentage into the 0-49 or 50-99 range.
func (f ProgressFunc) half(offset int) ProgressFunc {
	if f == nil {
		return nil
	}
	return func(percent int) {
		f(offset + percent/2)
	}
}

// Render encodes b with depth d and palette p and assembles the result into a
// near-square Framebuffer. Input that produces no pixels is rendered as a
// single transparent pixel.
//
// Encoding reports progress from 0 to 49 and assembly from 50 to 99.
func Render(ctx context.Context, b []byte, d BitDepth, p Palette, progress ProgressFunc) (*Framebuffer, error) {
	pixels, err := Encode(ctx, b, d, p, progress.half(0))
	if err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		return NewFramebuffer(image.Rect(0, 0, 1, 1)), nil
	}
	return Assemble(ctx, pixels, Size(len(pixels)), progress.half(50)), nil
}
