package pixparse

import (
	"errors"
	"fmt"
	"image"
	"reflect"
	"sync"

	intImage "github.com/gogpu/pixparse/internal/image"
)

// DefaultMaxBytes is the default limit on a single output buffer (1 GiB).
const DefaultMaxBytes = 1 << 30

var (
	errNilImage    = errors.New("nil image")
	errEmptyBounds = errors.New("empty bounds")
)

// Extractor converts decoded images into PixelBuffers.
//
// An Extractor holds only immutable configuration and a scratch pool, so a
// single instance may be shared by any number of goroutines.
type Extractor struct {
	rasterizer Rasterizer
	maxBytes   int
	scratch    *intImage.Pool
}

// New creates an Extractor.
// Returns ErrUnknownRasterizer if WithBackend names an unregistered
// rasterizer, or if no rasterizer is registered at all.
func New(opts ...Option) (*Extractor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := o.rasterizer
	if r == nil && o.backend != "" {
		r = LookupRasterizer(o.backend)
		if r == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRasterizer, o.backend)
		}
	}
	if r == nil {
		r = DefaultRasterizer()
	}
	if r == nil {
		return nil, fmt.Errorf("%w: registry is empty", ErrUnknownRasterizer)
	}

	return &Extractor{
		rasterizer: r,
		maxBytes:   o.maxBytes,
		scratch:    intImage.NewPool(o.scratchLimit),
	}, nil
}

// Rasterizer returns the rasterizer used by the extractor.
func (e *Extractor) Rasterizer() Rasterizer {
	return e.rasterizer
}

// MaxBytes returns the largest buffer the extractor will allocate.
func (e *Extractor) MaxBytes() int {
	return e.maxBytes
}

// Extract converts img into a newly allocated PixelBuffer.
//
// The output has the image's visual pixel dimensions: the stored bounds,
// with width and height exchanged when img is Oriented with a rotating
// orientation. Pixels are straight RGBA8 with row 0 at the visual top.
//
// Errors match ErrInvalidImage, ErrAllocation or ErrDecode and are of type
// *Error. No buffer is returned on error.
func (e *Extractor) Extract(img image.Image) (*PixelBuffer, error) {
	src, o := unwrap(img)
	if isNil(src) {
		return nil, &Error{Op: "extract", Kind: ErrInvalidImage, Err: errNilImage}
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, &Error{Op: "extract", Kind: ErrInvalidImage, Width: b.Dx(), Height: b.Dy(), Err: errEmptyBounds}
	}

	w, h := o.Size(b.Dx(), b.Dy())
	size, ok := intImage.RGBA8Size(w, h)
	if !ok {
		return nil, &Error{Op: "extract", Kind: ErrAllocation, Width: w, Height: h, Err: errors.New("size overflows int")}
	}
	if size > e.maxBytes {
		return nil, &Error{
			Op: "extract", Kind: ErrAllocation, Width: w, Height: h,
			Err: fmt.Errorf("%d bytes exceeds limit of %d", size, e.maxBytes),
		}
	}

	pb := newPixelBuffer(w, h, size)
	if err := e.render(pb.data, src, o); err != nil {
		return nil, &Error{Op: "extract", Kind: ErrDecode, Width: w, Height: h, Err: err}
	}
	return pb, nil
}

// render rasterizes src into dst, re-orienting through a scratch buffer
// when o is not the identity.
func (e *Extractor) render(dst []byte, src image.Image, o Orientation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", intImage.ErrCorrupt, r)
		}
	}()

	orient := intImage.Orientation(o)
	if orient.IsIdentity() {
		return e.rasterizer.Rasterize(dst, src)
	}

	scratch := e.scratch.Get(len(dst))
	defer e.scratch.Put(scratch)

	if err := e.rasterizer.Rasterize(scratch, src); err != nil {
		return err
	}
	b := src.Bounds()
	return intImage.Orient(dst, scratch, b.Dx(), b.Dy(), orient)
}

// unwrap returns the stored image and its orientation.
func unwrap(img image.Image) (image.Image, Orientation) {
	if oi, ok := img.(Oriented); ok && !isNil(img) {
		o := oi.Orientation()
		if !o.IsValid() {
			o = OrientationTopLeft
		}
		return oi.Stored(), o
	}
	return img, OrientationTopLeft
}

// isNil reports whether img is nil or a typed nil.
func isNil(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

var defaultExtractor = sync.OnceValue(func() *Extractor {
	return &Extractor{
		rasterizer: softwareRasterizer{},
		maxBytes:   DefaultMaxBytes,
		scratch:    intImage.NewPool(2),
	}
})

// Extract converts img with a shared Extractor that uses the software
// rasterizer and DefaultMaxBytes.
func Extract(img image.Image) (*PixelBuffer, error) {
	return defaultExtractor().Extract(img)
}
