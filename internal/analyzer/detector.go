package analyzer

import "image"

// Center is the pivot of a foreground cut-out together with the full size of
// the image it was measured in.
type Center struct {
	X      float64
	Y      float64
	Width  int
	Height int
	// Box is the foreground bounding box, Max exclusive as usual for image.Rectangle.
	// Empty when the image has no foreground pixel.
	Box image.Rectangle
}

// Locator finds the pivot of the foreground in an image.
type Locator interface {
	Locate(img image.Image) Center
}
