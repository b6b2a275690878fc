// Package pixparse converts decoded images into raw RGBA8 pixel buffers.
//
// # Overview
//
// pixparse takes any image.Image, whatever its color model, storage layout
// or EXIF orientation, and produces a PixelBuffer: width, height, and exactly
// width*height*4 bytes of straight (non-premultiplied) RGBA, row-major from
// the visual top-left corner. The buffer is meant for computer-vision code
// that wants one predictable memory layout, such as marker or cube detection.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/pixparse"
//	    "github.com/gogpu/pixparse/source"
//	)
//
//	img, err := source.Open("photo.jpg") // applies EXIF orientation on extract
//	if err != nil {
//	    return err
//	}
//	buf, err := pixparse.Extract(img)
//	if err != nil {
//	    return err
//	}
//	r, g, b, a, _ := buf.RGBAAt(0, 0)
//
// # Normalization
//
// Grayscale sources become R=G=B with A=255. Paletted, Y'CbCr, CMYK and
// 16-bit sources are converted to 8 bits per channel. Premultiplied sources
// are unpremultiplied with the rounding of color.NRGBAModel. Sources without
// an alpha channel always yield A=255.
//
// # Orientation
//
// Images implementing Oriented (see WithOrientation and source.Image) are
// rasterized in storage order and then re-oriented, so the first row of the
// buffer is the top row a viewer sees. Orientations 5-8 exchange width and
// height.
//
// # Rasterizers
//
// Pixel conversion goes through the Rasterizer interface. Two are built in:
// "software" (dedicated loops per standard library image type) and "xdraw"
// (golang.org/x/image/draw). Others can be added with RegisterRasterizer.
//
// # Errors
//
// Extract fails with an *Error whose kind is ErrInvalidImage (nil or empty
// image), ErrAllocation (size overflow or over the byte limit) or ErrDecode
// (unreadable pixels). No partial buffer is ever returned.
//
// # Ownership
//
// A PixelBuffer owns its bytes and is immutable once Extract returns.
// Data and RowBytes return the storage without copying; writing through
// those slices changes the buffer for every holder and breaks that
// guarantee. Pixels, RGBAAt and At read without exposing storage, and
// Bytes, CopyTo, Clone and ToNRGBA copy pixels for independent use.
package pixparse

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
