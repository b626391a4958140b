package render

import (
	"image/color"
	"math"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

// colorChain builds the per-pixel part of the filter chain. Each step works
// on [0,1] channels and clamps, like successive filter primitives.
func colorChain(p domain.FilterParams) func(color.NRGBA) color.NRGBA {
	b := p.Brightness / 100
	c := p.Contrast / 100
	m := saturateMatrix(p.Saturation / 100)

	return func(px color.NRGBA) color.NRGBA {
		r := float64(px.R) / 255
		g := float64(px.G) / 255
		bl := float64(px.B) / 255

		// brightness
		r, g, bl = clamp01(r*b), clamp01(g*b), clamp01(bl*b)

		// contrast about the mid-point
		r = clamp01((r-0.5)*c + 0.5)
		g = clamp01((g-0.5)*c + 0.5)
		bl = clamp01((bl-0.5)*c + 0.5)

		// saturate
		r, g, bl = clamp01(m[0]*r+m[1]*g+m[2]*bl),
			clamp01(m[3]*r+m[4]*g+m[5]*bl),
			clamp01(m[6]*r+m[7]*g+m[8]*bl)

		return color.NRGBA{R: to8(r), G: to8(g), B: to8(bl), A: px.A}
	}
}

// saturateMatrix is the 3x3 luminance-preserving saturation matrix
func saturateMatrix(s float64) [9]float64 {
	return [9]float64{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func to8(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
