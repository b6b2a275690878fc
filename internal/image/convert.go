package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Conversion errors.
var (
	// ErrInvalidDimensions is returned when the source bounds are empty.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrBufferSize is returned when dst is not exactly width*height*4 bytes.
	ErrBufferSize = errors.New("image: destination size mismatch")

	// ErrCorrupt is returned when a source's backing store is shorter than
	// its bounds require, or reading a pixel panicked.
	ErrCorrupt = errors.New("image: corrupt pixel data")
)

// BytesPerPixel is the size of one output pixel.
const BytesPerPixel = 4

// RGBA8Size returns width*height*4 and false if the product overflows int.
func RGBA8Size(width, height int) (int, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}
	row := width * BytesPerPixel
	if row/BytesPerPixel != width {
		return 0, false
	}
	n := row * height
	if n/height != row {
		return 0, false
	}
	return n, true
}

// ToRGBA8 writes src into dst as straight (non-premultiplied) RGBA8,
// row-major from the top-left of src.Bounds(), with stride width*4.
// Layouts without alpha produce A=255.
//
// dst must be exactly Dx*Dy*4 bytes. On error dst contents are unspecified.
func ToRGBA8(dst []byte, src image.Image) (err error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	size, ok := RGBA8Size(w, h)
	if !ok {
		return ErrInvalidDimensions
	}
	if len(dst) != size {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferSize, len(dst), size)
	}

	// At() implementations and malformed subsampling ratios index straight
	// into backing slices; a panic there means the store is corrupt.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	if err := Validate(src); err != nil {
		return err
	}

	switch s := src.(type) {
	case *image.NRGBA:
		return copyNRGBA(dst, s, w, h)
	case *image.RGBA:
		return convertRGBA(dst, s, w, h)
	case *image.NRGBA64:
		return convertNRGBA64(dst, s, w, h)
	case *image.RGBA64:
		return convertRGBA64(dst, s, w, h)
	case *image.Gray:
		return convertGray(dst, s, w, h)
	case *image.Gray16:
		return convertGray16(dst, s, w, h)
	case *image.Alpha:
		return convertAlpha(dst, s, w, h)
	case *image.YCbCr:
		return convertYCbCr(dst, s, w, h)
	case *image.Paletted:
		return convertPaletted(dst, s, w, h)
	case *image.CMYK:
		return convertCMYK(dst, s, w, h)
	}

	convertGeneric(dst, src, b)
	return nil
}

// Validate checks that the backing store of a standard library image covers
// its bounds. Failures wrap ErrCorrupt. Layouts without a backing store
// (FormatGeneric) only have their bounds checked.
//
// A truncated store does not always panic on access: At() and image/draw
// slice Pix up to its capacity.
func Validate(src image.Image) error {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if _, ok := RGBA8Size(w, h); !ok {
		return ErrInvalidDimensions
	}

	f := FormatOf(src)
	switch s := src.(type) {
	case *image.YCbCr:
		return checkYCbCr(s, w, h)
	case *image.Paletted:
		if len(s.Palette) == 0 {
			return fmt.Errorf("%w: empty palette", ErrCorrupt)
		}
	}
	if pix, stride, ok := chunky(src); ok {
		return checkPix(pix, stride, w, h, f.BytesPerPixel())
	}
	return nil
}

// chunky returns the interleaved backing store of src.
func chunky(src image.Image) (pix []uint8, stride int, ok bool) {
	switch s := src.(type) {
	case *image.NRGBA:
		return s.Pix, s.Stride, true
	case *image.RGBA:
		return s.Pix, s.Stride, true
	case *image.NRGBA64:
		return s.Pix, s.Stride, true
	case *image.RGBA64:
		return s.Pix, s.Stride, true
	case *image.Gray:
		return s.Pix, s.Stride, true
	case *image.Gray16:
		return s.Pix, s.Stride, true
	case *image.Alpha:
		return s.Pix, s.Stride, true
	case *image.Paletted:
		return s.Pix, s.Stride, true
	case *image.CMYK:
		return s.Pix, s.Stride, true
	}
	return nil, 0, false
}

func checkYCbCr(s *image.YCbCr, w, h int) error {
	last := image.Pt(s.Rect.Max.X-1, s.Rect.Max.Y-1)
	if s.YStride < w || len(s.Y) <= s.YOffset(last.X, last.Y) {
		return fmt.Errorf("%w: luma plane %d bytes for %dx%d", ErrCorrupt, len(s.Y), w, h)
	}
	ci := s.COffset(last.X, last.Y)
	if ci < 0 || len(s.Cb) <= ci || len(s.Cr) <= ci {
		return fmt.Errorf("%w: chroma planes %d/%d bytes for %dx%d", ErrCorrupt, len(s.Cb), len(s.Cr), w, h)
	}
	return nil
}

// checkPix verifies a chunky backing store covers a w×h region.
func checkPix(pix []uint8, stride, w, h, bpp int) error {
	if stride < w*bpp || len(pix) < (h-1)*stride+w*bpp {
		return fmt.Errorf("%w: %d bytes at stride %d for %dx%d", ErrCorrupt, len(pix), stride, w, h)
	}
	return nil
}

func copyNRGBA(dst []byte, s *image.NRGBA, w, h int) error {
	row := w * 4
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+row]
		copy(dst[y*row:(y+1)*row], src)
	}
	return nil
}

// unpremul8 matches color.NRGBAModel for an 8-bit premultiplied channel.
func unpremul8(c, a uint8) uint8 {
	return uint8((uint32(c) * 0x101 * 0xffff / (uint32(a) * 0x101)) >> 8)
}

func convertRGBA(dst []byte, s *image.RGBA, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w*4]
		out := dst[y*w*4 : (y+1)*w*4]
		for i := 0; i < len(src); i += 4 {
			a := src[i+3]
			switch a {
			case 0xff:
				copy(out[i:i+4], src[i:i+4])
			case 0:
				out[i], out[i+1], out[i+2], out[i+3] = 0, 0, 0, 0
			default:
				out[i] = unpremul8(src[i], a)
				out[i+1] = unpremul8(src[i+1], a)
				out[i+2] = unpremul8(src[i+2], a)
				out[i+3] = a
			}
		}
	}
	return nil
}

func convertNRGBA64(dst []byte, s *image.NRGBA64, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w*8]
		out := dst[y*w*4 : (y+1)*w*4]
		for x := range w {
			// Big-endian: the high byte comes first.
			out[x*4] = src[x*8]
			out[x*4+1] = src[x*8+2]
			out[x*4+2] = src[x*8+4]
			out[x*4+3] = src[x*8+6]
		}
	}
	return nil
}

func convertRGBA64(dst []byte, s *image.RGBA64, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w*8]
		out := dst[y*w*4 : (y+1)*w*4]
		for x := range w {
			p := src[x*8 : x*8+8]
			r := uint32(p[0])<<8 | uint32(p[1])
			g := uint32(p[2])<<8 | uint32(p[3])
			b := uint32(p[4])<<8 | uint32(p[5])
			a := uint32(p[6])<<8 | uint32(p[7])
			putNRGBA(out[x*4:x*4+4], r, g, b, a)
		}
	}
	return nil
}

func convertGray(dst []byte, s *image.Gray, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w]
		out := dst[y*w*4 : (y+1)*w*4]
		for x, v := range src {
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = v, v, v, 0xff
		}
	}
	return nil
}

func convertGray16(dst []byte, s *image.Gray16, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w*2]
		out := dst[y*w*4 : (y+1)*w*4]
		for x := range w {
			v := src[x*2]
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = v, v, v, 0xff
		}
	}
	return nil
}

func convertAlpha(dst []byte, s *image.Alpha, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w]
		out := dst[y*w*4 : (y+1)*w*4]
		for x, a := range src {
			// Coverage over premultiplied white: straight white with alpha a.
			if a == 0 {
				out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = 0, 0, 0, 0
				continue
			}
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = 0xff, 0xff, 0xff, a
		}
	}
	return nil
}

func convertYCbCr(dst []byte, s *image.YCbCr, w, h int) error {
	for y := range h {
		out := dst[y*w*4 : (y+1)*w*4]
		sy := s.Rect.Min.Y + y
		for x := range w {
			sx := s.Rect.Min.X + x
			yi := s.YOffset(sx, sy)
			co := s.COffset(sx, sy)
			c := color.YCbCr{Y: s.Y[yi], Cb: s.Cb[co], Cr: s.Cr[co]}
			r, g, b, _ := c.RGBA()
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), 0xff
		}
	}
	return nil
}

func convertPaletted(dst []byte, s *image.Paletted, w, h int) error {
	lut := make([]color.NRGBA, len(s.Palette))
	for i, c := range s.Palette {
		if c == nil {
			continue
		}
		lut[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w]
		out := dst[y*w*4 : (y+1)*w*4]
		for x, idx := range src {
			if int(idx) >= len(lut) {
				return fmt.Errorf("%w: palette index %d out of range [0,%d)", ErrCorrupt, idx, len(lut))
			}
			c := lut[idx]
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return nil
}

func convertCMYK(dst []byte, s *image.CMYK, w, h int) error {
	for y := range h {
		src := s.Pix[y*s.Stride : y*s.Stride+w*4]
		out := dst[y*w*4 : (y+1)*w*4]
		for x := range w {
			p := src[x*4 : x*4+4]
			r, g, b, _ := color.CMYK{C: p[0], M: p[1], Y: p[2], K: p[3]}.RGBA()
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), 0xff
		}
	}
	return nil
}

func convertGeneric(dst []byte, src image.Image, b image.Rectangle) {
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		out := dst[(y-b.Min.Y)*w*4 : (y-b.Min.Y+1)*w*4]
		for x := b.Min.X; x < b.Max.X; x++ {
			i := (x - b.Min.X) * 4
			c := src.At(x, y)
			if c == nil {
				// A missing color is transparent black.
				out[i], out[i+1], out[i+2], out[i+3] = 0, 0, 0, 0
				continue
			}
			r, g, bl, a := c.RGBA()
			putNRGBA(out[i:i+4], r, g, bl, a)
		}
	}
}

// putNRGBA stores a 16-bit premultiplied color as straight RGBA8,
// with the same rounding as color.NRGBAModel.
func putNRGBA(out []byte, r, g, b, a uint32) {
	switch a {
	case 0xffff:
	case 0:
		r, g, b = 0, 0, 0
	default:
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}
	out[0], out[1], out[2], out[3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
}
