package ocr

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
)

// Template validation failures, wrapped in *TemplateError.
var (
	ErrNoTemplates  = errors.New("no templates")
	ErrTemplateSize = errors.New("templates differ in size")
)

// TemplateError reports a template set that could not be read or is not
// usable.
type TemplateError struct {
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Template is a labeled reference bitmap.
type Template struct {
	Label string
	Image *image.Gray

	pix    []float64
	energy float64
}

func newTemplate(label string, img *image.Gray) Template {
	img = imaging.ToGray(img)
	pix := toFloats(img)
	return Template{
		Label:  label,
		Image:  img,
		pix:    pix,
		energy: floats.Dot(pix, pix),
	}
}

// TemplateSet is an ordered, non-empty list of templates of equal size.
// It is immutable and safe to share between goroutines.
type TemplateSet struct {
	templates []Template
	size      image.Point
}

// NewTemplateSet builds a set from labeled bitmaps, keeping their order.
func NewTemplateSet(templates []Template) (*TemplateSet, error) {
	if len(templates) == 0 {
		return nil, &TemplateError{Path: "(memory)", Err: ErrNoTemplates}
	}

	s := &TemplateSet{
		templates: make([]Template, 0, len(templates)),
		size:      templates[0].Image.Bounds().Size(),
	}
	for _, t := range templates {
		if sz := t.Image.Bounds().Size(); sz != s.size {
			return nil, &TemplateError{
				Path: t.Label,
				Err:  fmt.Errorf("%w: %v, want %v", ErrTemplateSize, sz, s.size),
			}
		}
		s.templates = append(s.templates, newTemplate(t.Label, t.Image))
	}
	return s, nil
}

// LoadTemplates reads every image in dir of fsys, ordered by file name.
// The label of a template is its file name without extension. Hidden
// files and subdirectories are ignored.
func LoadTemplates(fsys fs.FS, dir string) (*TemplateSet, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, &TemplateError{Path: dir, Err: err}
	}

	var templates []Template
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		p := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &TemplateError{Path: p, Err: err}
		}
		s, err := imaging.DecodeBytes(data)
		if err != nil {
			return nil, &TemplateError{Path: p, Err: err}
		}
		templates = append(templates, Template{
			Label: strings.TrimSuffix(name, path.Ext(name)),
			Image: s.Gray,
		})
	}

	if len(templates) == 0 {
		return nil, &TemplateError{Path: dir, Err: ErrNoTemplates}
	}
	return NewTemplateSet(templates)
}

// LoadTemplateDir reads a template set from a directory on disk.
func LoadTemplateDir(dir string) (*TemplateSet, error) {
	set, err := LoadTemplates(os.DirFS(dir), ".")
	var tErr *TemplateError
	if errors.As(err, &tErr) {
		tErr.Path = filepath.Join(dir, filepath.FromSlash(tErr.Path))
	}
	return set, err
}

// Len returns the number of templates.
func (s *TemplateSet) Len() int { return len(s.templates) }

// Size returns the common template size.
func (s *TemplateSet) Size() image.Point { return s.size }

// Labels returns the template labels in set order.
func (s *TemplateSet) Labels() []string {
	labels := make([]string, len(s.templates))
	for i, t := range s.templates {
		labels[i] = t.Label
	}
	return labels
}

// Template returns the i-th template.
func (s *TemplateSet) Template(i int) Template { return s.templates[i] }

func toFloats(img *image.Gray) []float64 {
	b := img.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for _, p := range img.Pix[y*img.Stride : y*img.Stride+b.Dx()] {
			out = append(out, float64(p))
		}
	}
	return out
}
