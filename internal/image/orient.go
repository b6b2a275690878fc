package image

import "fmt"

// Orientation is an EXIF orientation tag value (1-8).
// Values outside that range behave as 1.
type Orientation uint8

// EXIF orientation values, named by where row 0 / column 0 of the stored
// pixels appear in the visual image.
const (
	TopLeft     Orientation = 1 // normal
	TopRight    Orientation = 2 // mirror horizontal
	BottomRight Orientation = 3 // rotate 180
	BottomLeft  Orientation = 4 // mirror vertical
	LeftTop     Orientation = 5 // transpose
	RightTop    Orientation = 6 // rotate 90 CW
	RightBottom Orientation = 7 // transverse
	LeftBottom  Orientation = 8 // rotate 270 CW
)

// IsIdentity reports whether o leaves stored pixels as they are.
func (o Orientation) IsIdentity() bool {
	return o < TopRight || o > LeftBottom
}

// SwapsAxes reports whether o exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	return o >= LeftTop && o <= LeftBottom
}

// Size returns the visual dimensions of a stored w×h image.
func (o Orientation) Size(w, h int) (int, int) {
	if o.SwapsAxes() {
		return h, w
	}
	return w, h
}

// Orient copies the stored srcW×srcH RGBA8 pixels in src into dst in visual
// order for orientation o. dst and src must both be srcW*srcH*4 bytes and
// must not overlap.
func Orient(dst, src []byte, srcW, srcH int, o Orientation) error {
	size, ok := RGBA8Size(srcW, srcH)
	if !ok {
		return ErrInvalidDimensions
	}
	if len(src) != size || len(dst) != size {
		return fmt.Errorf("%w: src %d, dst %d, need %d", ErrBufferSize, len(src), len(dst), size)
	}
	if o.IsIdentity() {
		copy(dst, src)
		return nil
	}

	dstW, _ := o.Size(srcW, srcH)
	srcStride := srcW * 4
	dstStride := dstW * 4

	// Forward mapping: each stored pixel lands at exactly one visual position.
	for sy := range srcH {
		row := src[sy*srcStride : (sy+1)*srcStride]
		for sx := range srcW {
			var dx, dy int
			switch o {
			case TopRight:
				dx, dy = srcW-1-sx, sy
			case BottomRight:
				dx, dy = srcW-1-sx, srcH-1-sy
			case BottomLeft:
				dx, dy = sx, srcH-1-sy
			case LeftTop:
				dx, dy = sy, sx
			case RightTop:
				dx, dy = srcH-1-sy, sx
			case RightBottom:
				dx, dy = srcH-1-sy, srcW-1-sx
			case LeftBottom:
				dx, dy = sy, srcW-1-sx
			}
			off := dy*dstStride + dx*4
			copy(dst[off:off+4], row[sx*4:sx*4+4])
		}
	}
	return nil
}
