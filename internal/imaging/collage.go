package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Collage tiles the parts of src into one image, row by row. The grid has
// floor(sqrt(n)) rows, capped at maxRows when maxRows > 0, and as many
// columns as needed. Every cell takes the size of the first part; parts
// of a different size are resampled to it with a Lanczos filter.
//
// Collage returns an empty image when parts is empty.
func Collage(src *image.Gray, parts []image.Rectangle, maxRows int) *image.Gray {
	if len(parts) == 0 {
		return image.NewGray(image.Rectangle{})
	}

	n := len(parts)
	rows := int(math.Floor(math.Sqrt(float64(n))))
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}
	cols := (n + rows - 1) / rows

	w, h := parts[0].Dx(), parts[0].Dy()
	dst := imaging.New(w*cols, h*rows, image.Black)
	for i, p := range parts {
		var tile image.Image = imaging.Crop(src, p)
		if p.Dx() != w || p.Dy() != h {
			tile = imaging.Resize(tile, w, h, imaging.Lanczos)
		}
		dst = imaging.Paste(dst, tile, image.Pt((i%cols)*w, (i/cols)*h))
	}
	return ToGray(dst)
}
