package raster

import (
	"context"
	"fmt"
)

// packer turns source bytes into pixels for one bit depth.
type packer interface {
	// pixels returns the number of pixels produced from n source bytes
	pixels(n int) int
	// pack fills out, which is pixels(len(b)) long
	pack(ctx context.Context, b []byte, p Palette, out []uint32, progress ProgressFunc) error
}

func packerFor(d BitDepth) (packer, error) {
	switch d {
	case OneBpp:
		return bitPacker{bits: 1}, nil
	case TwoBpp:
		return bitPacker{bits: 2}, nil
	case FourBpp:
		return bitPacker{bits: 4, highFirst: true}, nil
	case EightBpp:
		return bytePacker{}, nil
	case SixteenBpp:
		return wordPacker{}, nil
	case ThirtyTwoBpp:
		return argbPacker{}, nil
	case TwentyFourBpp:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDepth, d)
	}
	return nil, ErrInvalidDepth
}

func lookup(p Palette, i int) (uint32, error) {
	if i >= len(p) {
		return 0, fmt.Errorf("%w: index %d with %d colors", ErrPaletteTooSmall, i, len(p))
	}
	return p[i], nil
}

// checkpoint returns how many bytes are processed between two checks for
// cancellation, roughly one percent of the input.
func checkpoint(n int) int {
	if step := n / 100; step > 0 {
		return step
	}
	return 1
}

// bitPacker splits each byte into 8/bits groups. The groups are taken from
// the least significant bits upwards unless highFirst is set.
type bitPacker struct {
	bits      int
	highFirst bool
}

func (k bitPacker) pixels(n int) int {
	return n * 8 / k.bits
}

func (k bitPacker) pack(ctx context.Context, b []byte, p Palette, out []uint32, progress ProgressFunc) error {
	perByte := 8 / k.bits
	mask := byte(1)<<uint(k.bits) - 1
	step := checkpoint(len(b))

	for i, v := range b {
		if i%step == 0 {
			if ctx.Err() != nil {
				return nil
			}
			progress.report(i * 100 / len(b))
		}

		for j := 0; j < perByte; j++ {
			shift := uint(j * k.bits)
			if k.highFirst {
				shift = uint((perByte - 1 - j) * k.bits)
			}
			c, err := lookup(p, int(v>>shift&mask))
			if err != nil {
				return err
			}
			out[i*perByte+j] = c
		}
	}
	return nil
}

type bytePacker struct{}

func (bytePacker) pixels(n int) int {
	return n
}

func (bytePacker) pack(_ context.Context, b []byte, p Palette, out []uint32, _ ProgressFunc) error {
	for i, v := range b {
		c, err := lookup(p, int(v))
		if err != nil {
			return err
		}
		out[i] = c
	}
	return nil
}

// wordPacker reads big-endian 16-bit words, a trailing odd byte is padded
// with a zero low byte.
type wordPacker struct{}

func (wordPacker) pixels(n int) int {
	return (n + 1) / 2
}

func (wordPacker) pack(_ context.Context, b []byte, p Palette, out []uint32, _ ProgressFunc) error {
	for i := 0; i < len(b); i += 2 {
		v := int(b[i]) << 8
		if i+1 < len(b) {
			v |= int(b[i+1])
		}
		c, err := lookup(p, v)
		if err != nil {
			return err
		}
		out[i/2] = c
	}
	return nil
}

// argbPacker reads the color directly from four bytes in the order alpha,
// red, green, blue.
type argbPacker struct{}

// pixels rounds a partial trailing group up to the next multiple of four
// pixels rather than to the next pixel.
func (argbPacker) pixels(n int) int {
	count := n / 4
	if n%4 == 0 {
		return count
	}
	for count%4 != 0 {
		count++
	}
	return count
}

func (argbPacker) pack(_ context.Context, b []byte, _ Palette, out []uint32, _ ProgressFunc) error {
	at := func(i int) uint32 {
		if i < len(b) {
			return uint32(b[i])
		}
		return 0
	}
	for i := range out {
		o := i * 4
		out[i] = at(o)<<24 | at(o+1)<<16 | at(o+2)<<8 | at(o+3)
	}
	return nil
}

// Encode converts b into one ARGB color per pixel using the packing rule of
// depth d, looking indexed colors up in p. p is ignored for ThirtyTwoBpp.
//
// Cancelling ctx stops the encoding at the next checkpoint; the pixels not
// yet produced are left as zero and no error is returned.
func Encode(ctx context.Context, b []byte, d BitDepth, p Palette, progress ProgressFunc) ([]uint32, error) {
	k, err := packerFor(d)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, k.pixels(len(b)))
	if len(out) == 0 {
		return out, nil
	}

	if err := k.pack(ctx, b, p, out, progress); err != nil {
		return nil, err
	}
	return out, nil
}
