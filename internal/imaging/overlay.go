package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/wordtile-ocr/internal/layout"
)

// OverlayOptions controls how Overlay draws a layout.
type OverlayOptions struct {
	// Labels draws row and column indices inside the board.
	Labels bool

	// RowColor, ColColor and RackColor are hex colors such as "#ff0000".
	// Empty values select the default palette.
	RowColor  string
	ColColor  string
	RackColor string

	// Opacity of the lines in (0, 1]. Zero selects 0.8.
	Opacity float64
}

// Default overlay palette: red rows, blue columns, green rack.
var (
	defaultRowColor  = colorful.Hsv(0, 0.85, 1)
	defaultColColor  = colorful.Hsv(210, 0.85, 1)
	defaultRackColor = colorful.Hsv(120, 0.85, 0.9)
)

// Overlay returns a color copy of img with the board and rack intervals of
// l drawn on it. Every interval contributes a line at its start and at its
// end.
func Overlay(img image.Image, l *layout.Layout, opts OverlayOptions) (*image.RGBA, error) {
	rowColor, err := pickColor(opts.RowColor, defaultRowColor)
	if err != nil {
		return nil, err
	}
	colColor, err := pickColor(opts.ColColor, defaultColColor)
	if err != nil {
		return nil, err
	}
	rackColor, err := pickColor(opts.RackColor, defaultRackColor)
	if err != nil {
		return nil, err
	}
	alpha := opts.Opacity
	if alpha <= 0 || alpha > 1 {
		alpha = 0.8
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, r := range l.Rows {
		hline(result, l.Board.Min.X, l.Board.Max.X, r.Start, rowColor, alpha)
		hline(result, l.Board.Min.X, l.Board.Max.X, r.End, rowColor, alpha)
	}
	for _, c := range l.Cols {
		vline(result, c.Start, l.Board.Min.Y, l.Board.Max.Y, colColor, alpha)
		vline(result, c.End, l.Board.Min.Y, l.Board.Max.Y, colColor, alpha)
	}
	for _, r := range l.RackRows {
		hline(result, l.Rack.Min.X, l.Rack.Max.X, r.Start, rackColor, alpha)
		hline(result, l.Rack.Min.X, l.Rack.Max.X, r.End, rackColor, alpha)
	}
	for _, c := range l.RackCols {
		vline(result, c.Start, l.Rack.Min.Y, l.Rack.Max.Y, rackColor, alpha)
		vline(result, c.End, l.Rack.Min.Y, l.Rack.Max.Y, rackColor, alpha)
	}

	if opts.Labels {
		fg := color.RGBA{255, 255, 255, 255}
		bg := color.RGBA{0, 0, 0, 180}
		for i, r := range l.Rows {
			drawLabel(result, l.Board.Min.X+1, r.Start+r.Len()/2, strconv.Itoa(i), fg, bg)
		}
		for i, c := range l.Cols {
			drawLabel(result, c.Start+c.Len()/2, l.Board.Min.Y+1, strconv.Itoa(i), fg, bg)
		}
	}

	return result, nil
}

func pickColor(hex string, fallback colorful.Color) (colorful.Color, error) {
	if hex == "" {
		return fallback, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

func hline(img *image.RGBA, x0, x1, y int, c colorful.Color, alpha float64) {
	for x := x0; x < x1; x++ {
		blend(img, x, y, c, alpha)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c colorful.Color, alpha float64) {
	for y := y0; y < y1; y++ {
		blend(img, x, y, c, alpha)
	}
}

// blend mixes c into the pixel at (x, y) in Lab space.
func blend(img *image.RGBA, x, y int, c colorful.Color, alpha float64) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	base, _ := colorful.MakeColor(img.RGBAAt(x, y))
	r, g, b := base.BlendLab(c, alpha).Clamped().RGB255()
	img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
}

// drawLabel draws a simple text label at the given position with a built-in
// 3x5 pixel font. Only digits and commas are drawn.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
