package pixparse

import (
	"image"
	"image/color"
	"testing"
)

func benchImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return img
}

func BenchmarkExtract(b *testing.B) {
	sources := map[string]image.Image{
		"NRGBA":   benchImage(640, 480),
		"RGBA":    image.NewRGBA(image.Rect(0, 0, 640, 480)),
		"YCbCr":   image.NewYCbCr(image.Rect(0, 0, 640, 480), image.YCbCrSubsampleRatio420),
		"Rotated": WithOrientation(benchImage(640, 480), OrientationRightTop),
		"Uniform": boundsOnly(image.Rect(0, 0, 640, 480)),
	}

	for _, backend := range []string{RasterizerSoftware, RasterizerXDraw} {
		e, err := New(WithBackend(backend))
		if err != nil {
			b.Fatal(err)
		}
		for name, img := range sources {
			b.Run(backend+"/"+name, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(640 * 480 * 4)
				for b.Loop() {
					if _, err := e.Extract(img); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkRGBAAt(b *testing.B) {
	pb, err := Extract(benchImage(256, 256))
	if err != nil {
		b.Fatal(err)
	}
	var sink color.NRGBA
	b.ReportAllocs()
	for b.Loop() {
		for y := range 256 {
			for x := range 256 {
				r, g, bl, a, _ := pb.RGBAAt(x, y)
				sink = color.NRGBA{R: r, G: g, B: bl, A: a}
			}
		}
	}
	_ = sink
}
