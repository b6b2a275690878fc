package pixparse

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	intImage "github.com/gogpu/pixparse/internal/image"
)

// xdrawRasterizer delegates color conversion to golang.org/x/image/draw.
// Drawing with draw.Src onto *image.NRGBA stores each source color through
// color.NRGBAModel, which unpremultiplies and fills A=255 for opaque models.
type xdrawRasterizer struct{}

func (xdrawRasterizer) Name() string { return RasterizerXDraw }

func (xdrawRasterizer) Rasterize(dst []byte, src image.Image) (err error) {
	b := src.Bounds()
	size, ok := intImage.RGBA8Size(b.Dx(), b.Dy())
	if !ok {
		return intImage.ErrInvalidDimensions
	}
	if len(dst) != size {
		return fmt.Errorf("%w: have %d bytes, need %d", intImage.ErrBufferSize, len(dst), size)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", intImage.ErrCorrupt, r)
		}
	}()

	if err := intImage.Validate(src); err != nil {
		return err
	}

	view := &image.NRGBA{
		Pix:    dst,
		Stride: b.Dx() * BytesPerPixel,
		Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
	}
	draw.Copy(view, image.Point{}, src, b, draw.Src, nil)
	return nil
}
