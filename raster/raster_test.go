package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitDepth(t *testing.T) {
	tests := []struct {
		depth   BitDepth
		bits    int
		indexed bool
		colors  int
		name    string
	}{
		{Invalid, 0, false, 0, "invalid"},
		{OneBpp, 1, true, 2, "1bpp"},
		{TwoBpp, 2, true, 4, "2bpp"},
		{FourBpp, 4, true, 16, "4bpp"},
		{EightBpp, 8, true, 256, "8bpp"},
		{SixteenBpp, 16, true, 65536, "16bpp"},
		{TwentyFourBpp, 24, false, 0, "24bpp"},
		{ThirtyTwoBpp, 32, false, 0, "32bpp"},
		{BitDepth(42), 0, false, 0, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bits, tt.depth.BitsPerPixel())
			assert.Equal(t, tt.indexed, tt.depth.Indexed())
			assert.Equal(t, tt.colors, tt.depth.PaletteSize())
			assert.Equal(t, tt.name, tt.depth.String())
		})
	}
}

func TestParseBitDepth(t *testing.T) {
	tests := []struct {
		in      string
		want    BitDepth
		wantErr bool
	}{
		{"1", OneBpp, false},
		{"2bpp", TwoBpp, false},
		{" 4BPP ", FourBpp, false},
		{"8", EightBpp, false},
		{"16", SixteenBpp, false},
		{"24", TwentyFourBpp, false},
		{"32bpp", ThirtyTwoBpp, false},
		{"0", Invalid, true},
		{"3", Invalid, true},
		{"", Invalid, true},
		{"eight", Invalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseBitDepth(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDepth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}
