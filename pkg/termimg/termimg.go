// Package termimg draws images with half-block characters: each terminal
// cell shows two vertically stacked pixels, the upper one as foreground of
// "▀" and the lower one as background.
package termimg

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HalfBlock is the glyph used for every cell
const HalfBlock = "▀"

// Backdrop is what transparent pixels are blended onto
var Backdrop = color.NRGBA{R: 30, G: 30, B: 30, A: 255}

// Cell is one terminal cell worth of pixels
type Cell struct {
	Top    color.NRGBA
	Bottom color.NRGBA
}

// PixelBox converts a cell budget into the pixel box it can show
func PixelBox(cols, rows int) (int, int) {
	return cols, rows * 2
}

// Cells samples img into rows of cells. An odd last pixel row is paired
// with the backdrop.
func Cells(img image.Image) [][]Cell {
	b := img.Bounds()
	rows := (b.Dy() + 1) / 2
	grid := make([][]Cell, rows)

	for r := 0; r < rows; r++ {
		line := make([]Cell, b.Dx())
		yTop := b.Min.Y + r*2
		for x := 0; x < b.Dx(); x++ {
			cell := Cell{
				Top:    flatten(img.At(b.Min.X+x, yTop)),
				Bottom: Backdrop,
			}
			if yTop+1 < b.Max.Y {
				cell.Bottom = flatten(img.At(b.Min.X+x, yTop+1))
			}
			line[x] = cell
		}
		grid[r] = line
	}
	return grid
}

// Render draws img as lines of styled half-blocks
func Render(img image.Image) string {
	var s strings.Builder
	for i, row := range Cells(img) {
		if i > 0 {
			s.WriteString("\n")
		}
		for _, c := range row {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(Hex(c.Top))).
				Background(lipgloss.Color(Hex(c.Bottom)))
			s.WriteString(style.Render(HalfBlock))
		}
	}
	return s.String()
}

// Hex formats a colour as #rrggbb
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// flatten composites a pixel over the backdrop
func flatten(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return n
	}
	a := float64(n.A) / 255
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*a + float64(bg)*(1-a) + 0.5)
	}
	return color.NRGBA{
		R: mix(n.R, Backdrop.R),
		G: mix(n.G, Backdrop.G),
		B: mix(n.B, Backdrop.B),
		A: 255,
	}
}
