package raster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		x, y          int
		depth         BitDepth
		want          SourceAddress
	}{
		{"1bpp origin", 4, 4, 0, 0, OneBpp, SourceAddress{0, 0}},
		{"1bpp", 4, 4, 3, 2, OneBpp, SourceAddress{1, 3}},
		{"2bpp", 4, 4, 1, 1, TwoBpp, SourceAddress{1, 2}},
		{"4bpp", 3, 3, 1, 1, FourBpp, SourceAddress{2, 0}},
		{"4bpp second nibble", 3, 3, 2, 1, FourBpp, SourceAddress{2, 4}},
		{"8bpp", 4, 4, 2, 1, EightBpp, SourceAddress{6, -1}},
		{"16bpp", 4, 4, 2, 1, SixteenBpp, SourceAddress{12, -1}},
		{"24bpp", 4, 4, 2, 1, TwentyFourBpp, SourceAddress{18, -1}},
		{"32bpp", 4, 4, 2, 1, ThirtyTwoBpp, SourceAddress{24, -1}},
		{"32bpp large", 70000, 70000, 69999, 69999, ThirtyTwoBpp, SourceAddress{19599999996, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Address(tt.width, tt.height, tt.x, tt.y, tt.depth)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressInvalid(t *testing.T) {
	_, err := Address(4, 4, 0, 0, Invalid)
	assert.ErrorIs(t, err, ErrInvalidDepth)
}

func TestAddressOutOfRange(t *testing.T) {
	tests := []struct {
		width, height, x, y int
	}{
		{4, 4, -1, 0},
		{4, 4, 0, -1},
		{4, 4, 4, 0},
		{4, 4, 0, 4},
		{-4, 4, -2, 0},
		{-4, -4, -1, -1},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		assert.False(t, InBounds(tt.width, tt.height, tt.x, tt.y), "%+v", tt)
		assert.Panics(t, func() { Address(tt.width, tt.height, tt.x, tt.y, EightBpp) }, "%+v", tt)
	}
	assert.True(t, InBounds(1, 1, 0, 0))
}

// TestAddressRoundTrip renders data with an identity palette, so each pixel
// holds the value it was packed from, and checks the mapped address points
// back at that value.
func TestAddressRoundTrip(t *testing.T) {
	b := make([]byte, 97)
	for i := range b {
		b[i] = byte(i*37 + 11)
	}

	tests := []struct {
		depth BitDepth
		value func(a SourceAddress) uint32
	}{
		{OneBpp, func(a SourceAddress) uint32 {
			return uint32(b[a.Offset] >> uint(a.Bit) & 0x1)
		}},
		{TwoBpp, func(a SourceAddress) uint32 {
			return uint32(b[a.Offset] >> uint(a.Bit) & 0x3)
		}},
		{FourBpp, func(a SourceAddress) uint32 {
			// The first pixel of each byte is its high nibble but maps to bit 0
			return uint32(b[a.Offset] >> uint(4-a.Bit) & 0xf)
		}},
		{EightBpp, func(a SourceAddress) uint32 {
			return uint32(b[a.Offset])
		}},
		{SixteenBpp, func(a SourceAddress) uint32 {
			v := uint32(b[a.Offset]) << 8
			if a.Offset+1 < uint64(len(b)) {
				v |= uint32(b[a.Offset+1])
			}
			return v
		}},
		{ThirtyTwoBpp, func(a SourceAddress) uint32 {
			var v uint32
			for i := uint64(0); i < 4; i++ {
				v <<= 8
				if a.Offset+i < uint64(len(b)) {
					v |= uint32(b[a.Offset+i])
				}
			}
			return v
		}},
	}

	for _, tt := range tests {
		t.Run(tt.depth.String(), func(t *testing.T) {
			pixels, err := Encode(context.Background(), b, tt.depth, identity(tt.depth.PaletteSize()), nil)
			require.NoError(t, err)
			d := Size(len(pixels))

			for y := 0; y < d.Height; y++ {
				for x := 0; x < d.Width; x++ {
					i := y*d.Width + x
					a, err := Address(d.Width, d.Height, x, y, tt.depth)
					require.NoError(t, err)
					if a.Offset >= uint64(len(b)) {
						// Padding pixels beyond the source data
						if i < len(pixels) {
							assert.Zero(t, pixels[i])
						}
						continue
					}
					require.Less(t, i, len(pixels))
					assert.Equal(t, tt.value(a), pixels[i], "pixel (%d, %d) at %s", x, y, a)
				}
			}
		})
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "0x00000000", FormatAddress(0, -1))
	assert.Equal(t, "0x0000001A:4", FormatAddress(0x1a, 4))
	assert.Equal(t, "0x00000006:0", FormatAddress(6, 0))
	assert.Equal(t, "0x123456789", FormatAddress(0x123456789, -1))
	assert.Equal(t, "0x00000006", SourceAddress{6, -1}.String())
}

func TestFormatPixelCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0.00 pixels"},
		{999, "999.00 pixels"},
		{1000, "1.00 kilopixels"},
		{1500000, "1.50 megapixels"},
		{2000000000, "2.00 gigapixels"},
		{5000000000000, "5000.00 gigapixels"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPixelCount(tt.n))
	}
}
