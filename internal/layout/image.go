package layout

import "fmt"

// ImageSizer reports the pixel size of an image referenced by a
// background-image style.
type ImageSizer interface {
	ImageSize(path string) (w, h int, err error)
}

// imageSize returns the background image size of n, loading it at most once
// per prepare.
func (e *Engine) imageSize(n *Node) ([2]float64, error) {
	g := n.geom
	if g.image != nil {
		return *g.image, nil
	}
	bg := g.style.BackgroundImage.Get()
	if bg == nil || bg.Path == "" {
		return [2]float64{}, fmt.Errorf("%s node: %w", n.kind, ErrMissingBackgroundImage)
	}
	if e.options.Images == nil {
		return [2]float64{}, fmt.Errorf("%w: %s: no image loader configured", ErrImageLoadFailed, bg.Path)
	}
	w, h, err := e.options.Images.ImageSize(bg.Path)
	if err != nil {
		return [2]float64{}, fmt.Errorf("%w: %s: %w", ErrImageLoadFailed, bg.Path, err)
	}
	g.image = &[2]float64{float64(w), float64(h)}
	return *g.image, nil
}
