package res

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decoded caches what is known about an image resource. img is filled on
// first use of Image.
type decoded struct {
	w, h int
	svg  *oksvg.SvgIcon
	img  image.Image
}

// ImageSize returns the pixel size of the image at ref. Raster images are
// sized from their header; SVG documents from their view box.
func (l *Loader) ImageSize(ref string) (w, h int, err error) {
	d, err := l.decodedImage(ref, false)
	if err != nil {
		return 0, 0, err
	}
	return d.w, d.h, nil
}

// Image decodes the image at ref. SVG documents are rasterised at their
// view box size.
func (l *Loader) Image(ref string) (image.Image, error) {
	d, err := l.decodedImage(ref, true)
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

func (l *Loader) decodedImage(ref string, pixels bool) (*decoded, error) {
	l.mu.RLock()
	d, ok := l.images[ref]
	l.mu.RUnlock()
	if ok && (!pixels || d.img != nil) {
		return d, nil
	}

	r, err := l.Load(ref)
	if err != nil {
		return nil, err
	}
	if r.Kind != KindImage {
		return nil, fmt.Errorf("%s is %s, not an image", ref, r.MimeType)
	}

	if d == nil {
		if d, err = probe(r); err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
	}
	if pixels && d.img == nil {
		img, err := rasterise(r, d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		withPixels := *d
		withPixels.img = img
		d = &withPixels
	}

	l.mu.Lock()
	l.images[ref] = d
	l.mu.Unlock()
	return d, nil
}

func isSVG(r *Resource) bool {
	return strings.Contains(strings.ToLower(r.MimeType), "svg")
}

func probe(r *Resource) (*decoded, error) {
	if isSVG(r) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(r.Data), oksvg.IgnoreErrorMode)
		if err != nil {
			return nil, err
		}
		w := int(math.Ceil(icon.ViewBox.W))
		h := int(math.Ceil(icon.ViewBox.H))
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("svg has an empty view box")
		}
		return &decoded{w: w, h: h, svg: icon}, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(r.Data))
	if err != nil {
		return nil, err
	}
	return &decoded{w: cfg.Width, h: cfg.Height}, nil
}

func rasterise(r *Resource, d *decoded) (image.Image, error) {
	if d.svg == nil {
		img, _, err := image.Decode(bytes.NewReader(r.Data))
		return img, err
	}
	img := image.NewRGBA(image.Rect(0, 0, d.w, d.h))
	scanner := rasterx.NewScannerGV(d.w, d.h, img, img.Bounds())
	dasher := rasterx.NewDasher(d.w, d.h, scanner)
	d.svg.SetTarget(0, 0, float64(d.w), float64(d.h))
	d.svg.Draw(dasher, 1)
	return img, nil
}
