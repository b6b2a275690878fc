package pixparse

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// quad returns the 2x2 image [red, green; blue, white].
func quad() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, green)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 1, white)
	return img
}

var quadBytes = []byte{
	255, 0, 0, 255, 0, 255, 0, 255,
	0, 0, 255, 255, 255, 255, 255, 255,
}

func mustExtract(t *testing.T, e *Extractor, img image.Image) *PixelBuffer {
	t.Helper()
	pb, err := e.Extract(img)
	if err != nil {
		t.Fatalf("Extract(%T) error = %v", img, err)
	}
	return pb
}

func newExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestExtract_Dimensions(t *testing.T) {
	e := newExtractor(t)
	sizes := []struct{ w, h int }{{1, 1}, {3, 7}, {64, 1}, {1, 64}, {33, 17}}

	for _, s := range sizes {
		// Non-zero origin must not leak into the output geometry.
		img := image.NewGray(image.Rect(5, -3, 5+s.w, -3+s.h))
		pb := mustExtract(t, e, img)
		if pb.Width() != s.w || pb.Height() != s.h {
			t.Errorf("%dx%d: got %dx%d", s.w, s.h, pb.Width(), pb.Height())
		}
		if pb.Len() != s.w*s.h*4 || len(pb.Data()) != s.w*s.h*4 {
			t.Errorf("%dx%d: Len() = %d, len(Data()) = %d, want %d", s.w, s.h, pb.Len(), len(pb.Data()), s.w*s.h*4)
		}
	}
}

func TestExtract_PureRed(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 4))
	for y := range 4 {
		for x := range 9 {
			img.Set(x, y, red)
		}
	}

	pb, err := Extract(img)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	data := pb.Data()
	for i := 0; i < len(data); i += 4 {
		if data[i] != 255 || data[i+1] != 0 || data[i+2] != 0 || data[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want [255 0 0 255]", i/4, data[i:i+4])
		}
	}
}

func TestExtract_NoAlphaIsOpaque(t *testing.T) {
	r := image.Rect(0, 0, 6, 5)
	ycc := image.NewYCbCr(r, image.YCbCrSubsampleRatio422)
	for i := range ycc.Y {
		ycc.Y[i] = uint8(i * 3)
	}
	gray := image.NewGray(r)
	gray16 := image.NewGray16(r)
	cmyk := image.NewCMYK(r)

	for _, img := range []image.Image{ycc, gray, gray16, cmyk} {
		pb := mustExtract(t, newExtractor(t), img)
		data := pb.Data()
		for i := 3; i < len(data); i += 4 {
			if data[i] != 255 {
				t.Errorf("%T: alpha at pixel %d = %d, want 255", img, i/4, data[i])
				break
			}
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := newExtractor(t)
	src := quad()

	first := mustExtract(t, e, src)
	second := mustExtract(t, e, src)

	if diff := cmp.Diff(quadBytes, first.Data()); diff != "" {
		t.Errorf("first extraction mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first.Data(), second.Data()); diff != "" {
		t.Errorf("extractions differ (-first +second):\n%s", diff)
	}
	if &first.Data()[0] == &second.Data()[0] {
		t.Error("extractions share storage")
	}
}

func TestExtract_Rotated90(t *testing.T) {
	// Stored 3x2, displayed after a 90° clockwise turn as 2x3.
	//
	//	stored        visual
	//	R G B         W R
	//	W W W         W G
	//	              W B
	stored := image.NewRGBA(image.Rect(0, 0, 3, 2))
	stored.SetRGBA(0, 0, red)
	stored.SetRGBA(1, 0, green)
	stored.SetRGBA(2, 0, blue)
	for x := range 3 {
		stored.SetRGBA(x, 1, white)
	}

	pb := mustExtract(t, newExtractor(t), WithOrientation(stored, OrientationRightTop))
	if pb.Width() != 2 || pb.Height() != 3 {
		t.Fatalf("size = %dx%d, want 2x3", pb.Width(), pb.Height())
	}

	wantTop := []byte{255, 255, 255, 255, 255, 0, 0, 255}
	if diff := cmp.Diff(wantTop, pb.RowBytes(0)); diff != "" {
		t.Errorf("top row mismatch (-want +got):\n%s", diff)
	}
	rawTop := stored.Pix[:8]
	if cmp.Equal(rawTop, pb.RowBytes(0)) {
		t.Error("top row equals the unrotated stored row")
	}
}

func TestExtract_AllOrientations(t *testing.T) {
	e := newExtractor(t)
	for o := OrientationTopLeft; o <= OrientationLeftBottom; o++ {
		pb := mustExtract(t, e, WithOrientation(quad(), o))

		// Every orientation of a 2x2 image keeps its four colors.
		seen := map[[4]byte]int{}
		for i := 0; i < pb.Len(); i += 4 {
			seen[[4]byte(pb.Data()[i:i+4])]++
		}
		if len(seen) != 4 {
			t.Errorf("%v: %d distinct pixels, want 4", o, len(seen))
		}
	}

	// Mirroring moves green to the top-left corner.
	pb := mustExtract(t, e, WithOrientation(quad(), OrientationTopRight))
	r, g, b, a, _ := pb.RGBAAt(0, 0)
	if r != 0 || g != 255 || b != 0 || a != 255 {
		t.Errorf("mirrored (0,0) = (%d,%d,%d,%d), want green", r, g, b, a)
	}
}

func TestExtract_InvalidOrientationIsIdentity(t *testing.T) {
	pb := mustExtract(t, newExtractor(t), WithOrientation(quad(), Orientation(42)))
	if diff := cmp.Diff(quadBytes, pb.Data()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_InvalidImage(t *testing.T) {
	var nilRGBA *image.RGBA
	var nilOriented *OrientedImage

	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil", nil},
		{"typed nil", nilRGBA},
		{"nil oriented wrapper", nilOriented},
		{"oriented nil", WithOrientation(nil, OrientationRightTop)},
		{"zero width", image.NewRGBA(image.Rect(0, 0, 0, 5))},
		{"zero height", image.NewRGBA(image.Rect(0, 0, 5, 0))},
		{"inverted", boundsOnly(image.Rectangle{Min: image.Pt(3, 3), Max: image.Pt(1, 1)})},
	}

	e := newExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, err := e.Extract(tt.img)
			if pb != nil {
				t.Errorf("Extract() returned a buffer on error")
			}
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("Extract() error = %v, want ErrInvalidImage", err)
			}
			var xerr *Error
			if !errors.As(err, &xerr) || xerr.Op != "extract" {
				t.Errorf("Extract() error %v is not an *Error with Op extract", err)
			}
		})
	}
}

func TestExtract_Allocation(t *testing.T) {
	e := newExtractor(t, WithMaxBytes(1024))

	pb, err := e.Extract(image.NewGray(image.Rect(0, 0, 17, 16)))
	if pb != nil || !errors.Is(err, ErrAllocation) {
		t.Errorf("over limit: Extract() = (%v, %v), want ErrAllocation", pb, err)
	}

	// Exactly at the limit is allowed.
	if _, err := e.Extract(image.NewGray(image.Rect(0, 0, 16, 16))); err != nil {
		t.Errorf("at limit: Extract() error = %v", err)
	}

	// Overflow is detected from bounds alone; nothing is allocated.
	huge := boundsOnly(image.Rect(0, 0, math.MaxInt/2, math.MaxInt/2))
	if _, err := Extract(huge); !errors.Is(err, ErrAllocation) {
		t.Errorf("overflow: Extract() error = %v, want ErrAllocation", err)
	}
}

func TestExtract_Decode(t *testing.T) {
	truncated := image.NewRGBA(image.Rect(0, 0, 8, 8))
	truncated.Pix = truncated.Pix[:100]

	failing := newExtractor(t, WithRasterizer(stubRasterizer{err: errors.New("backend lost")}))
	panicking := newExtractor(t, WithRasterizer(stubRasterizer{panics: true}))

	tests := []struct {
		name string
		e    *Extractor
		img  image.Image
	}{
		{"truncated software", newExtractor(t), truncated},
		{"truncated xdraw", newExtractor(t, WithBackend(RasterizerXDraw)), truncated},
		{"truncated oriented", newExtractor(t), WithOrientation(truncated, OrientationLeftBottom)},
		{"rasterizer error", failing, quad()},
		{"rasterizer panic", panicking, quad()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, err := tt.e.Extract(tt.img)
			if pb != nil {
				t.Error("Extract() returned a buffer on error")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Extract() error = %v, want ErrDecode", err)
			}
			if errors.Is(err, ErrInvalidImage) || errors.Is(err, ErrAllocation) {
				t.Errorf("Extract() error %v matches more than one kind", err)
			}
		})
	}
}

func TestExtract_Concurrent(t *testing.T) {
	e := newExtractor(t)
	src := WithOrientation(quad(), OrientationRightTop)
	want := mustExtract(t, e, src).Bytes()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				pb, err := e.Extract(src)
				if err != nil {
					t.Errorf("Extract() error = %v", err)
					return
				}
				if !cmp.Equal(want, pb.Data()) {
					t.Errorf("concurrent extraction differs: %v", pb.Data())
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNew_Options(t *testing.T) {
	e := newExtractor(t)
	if e.Rasterizer().Name() != RasterizerSoftware {
		t.Errorf("default rasterizer = %q, want %q", e.Rasterizer().Name(), RasterizerSoftware)
	}
	if e.MaxBytes() != DefaultMaxBytes {
		t.Errorf("MaxBytes() = %d, want %d", e.MaxBytes(), DefaultMaxBytes)
	}

	e = newExtractor(t, WithBackend(RasterizerXDraw), WithMaxBytes(-5))
	if e.Rasterizer().Name() != RasterizerXDraw {
		t.Errorf("rasterizer = %q, want %q", e.Rasterizer().Name(), RasterizerXDraw)
	}
	if e.MaxBytes() != DefaultMaxBytes {
		t.Errorf("MaxBytes() = %d, want default", e.MaxBytes())
	}

	stub := stubRasterizer{}
	e = newExtractor(t, WithBackend(RasterizerXDraw), WithRasterizer(stub))
	if e.Rasterizer().Name() != "stub" {
		t.Errorf("WithRasterizer should take precedence, got %q", e.Rasterizer().Name())
	}

	if _, err := New(WithBackend("missing")); !errors.Is(err, ErrUnknownRasterizer) {
		t.Errorf("New(WithBackend(missing)) error = %v, want ErrUnknownRasterizer", err)
	}
}

// boundsOnly is an image that reports bounds but has no pixels.
type boundsOnly image.Rectangle

func (b boundsOnly) ColorModel() color.Model  { return color.RGBAModel }
func (b boundsOnly) Bounds() image.Rectangle { return image.Rectangle(b) }
func (b boundsOnly) At(int, int) color.Color  { return color.RGBA{} }

type stubRasterizer struct {
	err    error
	panics bool
}

func (stubRasterizer) Name() string { return "stub" }

func (s stubRasterizer) Rasterize(dst []byte, _ image.Image) error {
	if s.panics {
		panic("rasterizer crashed")
	}
	if s.err != nil {
		// Partially written output must never escape.
		dst[0] = 0xff
		return s.err
	}
	return nil
}
