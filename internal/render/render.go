// Package render draws a burger caption onto a background template and
// writes the result as PNG.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dgallion1/bobsbackgrounds/internal/archive"
	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
)

// DefaultFontSize is the caption size in points when none is configured.
const DefaultFontSize = 36

// LoadTemplate decodes a PNG or JPEG template image.
func LoadTemplate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode template %s: %w", path, err)
	}
	return img, nil
}

// LoadFace parses a TrueType or OpenType font file at the given point size.
// An empty path selects the bundled Go Regular font.
func LoadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("render: read font: %w", err)
		}
	}
	if size <= 0 {
		size = DefaultFontSize
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face: %w", err)
	}
	return face, nil
}

// Caption is the text drawn for a burger: its name, then the explanation on
// its own paragraph when there is one.
func Caption(b catalog.Burger) string {
	if b.Explanation == nil || *b.Explanation == "" {
		return b.Name
	}
	return b.Name + "\n" + *b.Explanation
}

// AddText returns a copy of template with text drawn centered in col. Lines
// wrap on word boundaries to fit inside a margin of one tenth of the width;
// newlines in text start a new paragraph.
func AddText(template image.Image, text string, face font.Face, col color.Color) *image.RGBA {
	b := template.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, template, b.Min, draw.Src)

	margin := b.Dx() / 10
	lines := wrap(face, text, fixed.I(b.Dx()-2*margin))
	if len(lines) == 0 {
		return dst
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height
	total := lineHeight.Mul(fixed.I(len(lines)))
	y := fixed.I(b.Min.Y) + (fixed.I(b.Dy())-total)/2 + metrics.Ascent

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	for _, line := range lines {
		w := d.MeasureString(line)
		d.Dot = fixed.Point26_6{X: fixed.I(b.Min.X) + (fixed.I(b.Dx())-w)/2, Y: y}
		d.DrawString(line)
		y += lineHeight
	}
	return dst
}

// wrap greedily packs words into lines no wider than width. A single word
// wider than width gets a line of its own.
func wrap(face font.Face, text string, width fixed.Int26_6) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur string
		for _, word := range strings.Fields(para) {
			if cur == "" {
				cur = word
				continue
			}
			next := cur + " " + word
			if font.MeasureString(face, next) <= width {
				cur = next
				continue
			}
			lines = append(lines, cur)
			cur = word
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

// Save writes img to path as PNG. The image is encoded to a temporary file
// first; only then is an existing file at path moved into the archive
// directory and replaced. The archived location is returned, or "" when
// nothing was archived. On error the previous file stays at path.
func Save(img image.Image, path string, now time.Time) (archived string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".render-*.png")
	if err != nil {
		return "", fmt.Errorf("render: create: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("render: encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("render: close: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if archived, err = archive.Archive(path, now); err != nil {
			return "", err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("render: stat %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		if archived != "" {
			if rerr := os.Rename(archived, path); rerr == nil {
				archived = ""
			}
		}
		return archived, fmt.Errorf("render: rename: %w", err)
	}
	return archived, nil
}
