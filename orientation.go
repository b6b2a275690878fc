package pixparse

import (
	"fmt"
	"image"
)

// Orientation is the EXIF orientation of stored pixels (tag 0x0112).
//
// The name of each value says where the stored row 0 and column 0 appear
// in the image as a viewer sees it. Values outside 1-8 are treated as
// OrientationTopLeft, the EXIF default.
type Orientation uint8

// Orientation values.
const (
	OrientationTopLeft     Orientation = 1 // normal
	OrientationTopRight    Orientation = 2 // mirrored horizontally
	OrientationBottomRight Orientation = 3 // rotated 180°
	OrientationBottomLeft  Orientation = 4 // mirrored vertically
	OrientationLeftTop     Orientation = 5 // transposed
	OrientationRightTop    Orientation = 6 // needs 90° clockwise rotation
	OrientationRightBottom Orientation = 7 // transversed
	OrientationLeftBottom  Orientation = 8 // needs 90° counter-clockwise rotation
)

// IsValid reports whether o is one of the eight EXIF values.
func (o Orientation) IsValid() bool {
	return o >= OrientationTopLeft && o <= OrientationLeftBottom
}

// SwapsAxes reports whether applying o exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	return o >= OrientationLeftTop && o <= OrientationLeftBottom
}

// Size returns the visual dimensions of a stored width×height image.
func (o Orientation) Size(width, height int) (int, int) {
	if o.SwapsAxes() {
		return height, width
	}
	return width, height
}

// String returns a string representation of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationTopLeft:
		return "TopLeft"
	case OrientationTopRight:
		return "TopRight"
	case OrientationBottomRight:
		return "BottomRight"
	case OrientationBottomLeft:
		return "BottomLeft"
	case OrientationLeftTop:
		return "LeftTop"
	case OrientationRightTop:
		return "RightTop"
	case OrientationRightBottom:
		return "RightBottom"
	case OrientationLeftBottom:
		return "LeftBottom"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// Oriented is implemented by images that carry orientation metadata.
//
// Extract rasterizes Stored() and then applies Orientation(), so the first
// row of the output is the top row a viewer sees.
type Oriented interface {
	// Orientation returns how the stored pixels map to the visual image.
	Orientation() Orientation

	// Stored returns the pixels in storage order, before orientation.
	Stored() image.Image
}

// OrientedImage attaches an Orientation to an image.
//
// Its image.Image methods report the stored pixels unchanged; the
// orientation only takes effect in Extract.
type OrientedImage struct {
	image.Image
	orientation Orientation
}

// WithOrientation wraps img with orientation o.
func WithOrientation(img image.Image, o Orientation) *OrientedImage {
	return &OrientedImage{Image: img, orientation: o}
}

// Orientation implements Oriented.
func (oi *OrientedImage) Orientation() Orientation {
	return oi.orientation
}

// Stored implements Oriented.
func (oi *OrientedImage) Stored() image.Image {
	return oi.Image
}
