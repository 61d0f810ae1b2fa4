package analyzer

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/reelprep/internal/source"
	"github.com/ivlev/reelprep/internal/system"
)

// DefaultAlphaThreshold: a pixel belongs to the foreground when alpha > 10.
const DefaultAlphaThreshold = 10

// AlphaBoxLocator takes the midpoint of the bounding box of all pixels whose
// alpha exceeds Threshold. It is a box center, not a mass centroid: the
// distribution of pixels inside the box does not move it.
type AlphaBoxLocator struct {
	Threshold uint8
}

func NewAlphaBoxLocator() *AlphaBoxLocator {
	return &AlphaBoxLocator{Threshold: DefaultAlphaThreshold}
}

// FindCenter decodes the cut-out at path and locates its pivot with the default threshold.
func FindCenter(path string) (Center, error) {
	return LocateFile(NewAlphaBoxLocator(), path)
}

// LocateFile decodes the image at path and runs loc over it. Files without a
// known image extension are rejected before opening.
func LocateFile(loc Locator, path string) (Center, error) {
	if !source.IsImage(path) {
		return Center{}, fmt.Errorf("%s: unsupported image extension", path)
	}
	img, _, err := source.Decode(path)
	if err != nil {
		return Center{}, err
	}
	return loc.Locate(img), nil
}

// Locate scans every pixel once. Images without an alpha channel are opaque
// everywhere, so their box is the whole frame.
func (l *AlphaBoxLocator) Locate(img image.Image) Center {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pix, stride, release := straightAlpha(img)
	defer release()

	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] <= l.Threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return Center{
			X:      float64(w) / 2,
			Y:      float64(h) / 2,
			Width:  w,
			Height: h,
		}
	}

	return Center{
		X:      float64(minX+maxX) / 2,
		Y:      float64(minY+maxY) / 2,
		Width:  w,
		Height: h,
		Box:    image.Rect(minX, minY, maxX+1, maxY+1),
	}
}

// straightAlpha exposes the image as a zero-origin NRGBA pixel buffer.
// Decoders that already produce one are read in place; anything else is
// drawn into a pooled buffer. Alpha is identical in premultiplied and
// straight form, so either source is fine for thresholding.
func straightAlpha(img image.Image) (pix []uint8, stride int, release func()) {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n.Pix, n.Stride, func() {}
	}
	if r, ok := img.(*image.RGBA); ok && r.Rect.Min == (image.Point{}) {
		return r.Pix, r.Stride, func() {}
	}

	bounds := img.Bounds()
	buf := system.AcquireNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(buf, buf.Bounds(), img, bounds.Min, xdraw.Src)
	return buf.Pix, buf.Stride, func() { system.ReleaseNRGBA(buf) }
}
