package raster

import (
	"image"
	"math"
)

// Dimensions is the width and height of a raster in pixels.
type Dimensions struct {
	Width, Height int
}

func (d Dimensions) Rect() image.Rectangle {
	return image.Rect(0, 0, d.Width, d.Height)
}

func (d Dimensions) Area() int {
	return d.Width * d.Height
}

// isqrt returns floor(sqrt(n)), correcting for any floating point error on
// large inputs.
func isqrt(n int) int {
	s := int(math.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

// Size returns the near-square dimensions used to lay out n pixels. The width
// is always floor(sqrt(n)) and the height is extended by as many rows as
// needed to hold the remainder. Size returns zero dimensions for n < 1.
func Size(n int) Dimensions {
	if n < 1 {
		return Dimensions{}
	}

	s := isqrt(n)
	if s*s == n {
		return Dimensions{s, s}
	}

	remainder := n - s*s
	return Dimensions{s, s + (remainder+s-1)/s}
}
