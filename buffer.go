package pixparse

import (
	"image"
	"image/color"
	"iter"
)

// BytesPerPixel is the size of one pixel in a PixelBuffer.
const BytesPerPixel = 4

// PixelBuffer is an immutable RGBA8 pixel buffer produced by Extract.
//
// Pixels are stored row-major, top-to-bottom and left-to-right, four bytes
// per pixel in R, G, B, A order with straight (non-premultiplied) alpha.
// The buffer holds exactly Width()*Height()*4 bytes and is never resized
// or written after Extract returns.
//
// Thread safety: PixelBuffer is safe for concurrent read access.
type PixelBuffer struct {
	width  int
	height int
	data   []byte
}

// newPixelBuffer allocates the zeroed storage for a width×height buffer.
// size must equal width*height*4.
func newPixelBuffer(width, height, size int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]byte, size),
	}
}

// Width returns the width in pixels.
func (p *PixelBuffer) Width() int {
	return p.width
}

// Height returns the height in pixels.
func (p *PixelBuffer) Height() int {
	return p.height
}

// Stride returns the number of bytes per row.
func (p *PixelBuffer) Stride() int {
	return p.width * BytesPerPixel
}

// Len returns the size of the pixel data in bytes (Width*Height*4).
func (p *PixelBuffer) Len() int {
	return len(p.data)
}

// Data returns the pixel bytes owned by the buffer.
//
// The slice aliases the buffer's storage and must be treated as read-only:
// a write through it is seen by every holder of p and breaks its
// immutability. Use Bytes or CopyTo to obtain pixels that outlive or
// diverge from p, or Pixels and RGBAAt for access that exposes no storage.
func (p *PixelBuffer) Data() []byte {
	return p.data
}

// Bytes returns a copy of the pixel data.
func (p *PixelBuffer) Bytes() []byte {
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out
}

// CopyTo copies the pixel data into dst and returns the number of bytes
// copied, which is min(len(dst), Len()).
func (p *PixelBuffer) CopyTo(dst []byte) int {
	return copy(dst, p.data)
}

// RowBytes returns row y of the pixel data.
// Like Data, the row aliases the storage and must not be written; its
// capacity ends at the row so appends never reach the next one.
// Returns nil if y is out of bounds.
func (p *PixelBuffer) RowBytes(y int) []byte {
	if y < 0 || y >= p.height {
		return nil
	}
	stride := p.Stride()
	return p.data[y*stride : (y+1)*stride : (y+1)*stride]
}

// RGBAAt returns the straight RGBA components of pixel (x, y).
// ok is false if the coordinates are out of bounds.
func (p *PixelBuffer) RGBAAt(x, y int) (r, g, b, a uint8, ok bool) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0, false
	}
	i := (y*p.width + x) * BytesPerPixel
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3], true
}

// Pixels returns an iterator over all pixels, row by row from the top-left,
// yielding each position and its straight color by value.
func (p *PixelBuffer) Pixels() iter.Seq2[image.Point, color.NRGBA] {
	return func(yield func(image.Point, color.NRGBA) bool) {
		i := 0
		for y := range p.height {
			for x := range p.width {
				c := color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
				if !yield(image.Pt(x, y), c) {
					return
				}
				i += BytesPerPixel
			}
		}
	}
}

// Clone returns a deep copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	return &PixelBuffer{
		width:  p.width,
		height: p.height,
		data:   p.Bytes(),
	}
}

// ToNRGBA returns a copy of the buffer as an *image.NRGBA.
func (p *PixelBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements the image.Image interface.
func (p *PixelBuffer) At(x, y int) color.Color {
	r, g, b, a, ok := p.RGBAAt(x, y)
	if !ok {
		return color.NRGBA{}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *PixelBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
