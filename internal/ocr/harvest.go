package ocr

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
	"github.com/ironsheep/wordtile-ocr/internal/layout"
)

// Letter templates are cut from this part of a board cell and binarized
// at harvestLevel.
var harvestArea = image.Rect(7, 4, 7+38, 4+60)

const harvestLevel = 151

// ParseTiles reads a known board as 15 lines of 15 symbols in the Tiles
// layout of Report. Blank lines are skipped.
func ParseTiles(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if n := utf8.RuneCountInString(line); n != layout.BoardSize {
			return nil, fmt.Errorf("line %d: %d symbols, want %d", len(lines)+1, n, layout.BoardSize)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) != layout.BoardSize {
		return nil, fmt.Errorf("got %d lines, want %d", len(lines), layout.BoardSize)
	}
	return lines, nil
}

// HarvestTemplates cuts one binarized letter template per distinct letter
// of tiles from the board of img. tiles holds the known board in the
// layout ParseTiles reads; empty cells and blank tiles are skipped. Labels
// are uppercase and appear in reading order of their first occurrence.
func HarvestTemplates(img *image.Gray, l *layout.Layout, tiles []string) ([]Template, error) {
	cells := l.BoardCells()
	seen := make(map[string]bool)
	var out []Template
	for row, line := range tiles {
		for col, r := range []rune(line) {
			symbol := string(r)
			if symbol == EmptyTile || symbol == BlankTile {
				continue
			}
			label := strings.ToUpper(symbol)
			if seen[label] {
				continue
			}

			cell := cells[row*layout.BoardSize+col]
			crop, err := imaging.Crop(img, harvestArea.Add(cell.Min))
			if err != nil {
				return nil, fmt.Errorf("letter %s at row %d col %d: %w", label, row, col, err)
			}
			seen[label] = true
			out = append(out, Template{Label: label, Image: imaging.Binarize(crop, harvestLevel)})
		}
	}
	return out, nil
}
