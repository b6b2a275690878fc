// Package image normalizes decoded images into straight RGBA8 byte buffers
// for pixparse.
//
// It classifies the in-memory layout of standard library images, copies or
// converts their pixels into a caller-provided buffer, remaps buffers for
// EXIF orientation, and pools scratch buffers used by the remap step.
package image

import (
	"fmt"
	"image"
	"image/color"
)

// Format identifies the in-memory layout of a source image.
type Format uint8

const (
	// FormatGeneric is any image without a dedicated fast path.
	// Pixels are read through At().
	FormatGeneric Format = iota

	// FormatNRGBA is *image.NRGBA: 8-bit straight RGBA.
	FormatNRGBA

	// FormatRGBA is *image.RGBA: 8-bit premultiplied RGBA.
	FormatRGBA

	// FormatNRGBA64 is *image.NRGBA64: 16-bit straight RGBA.
	FormatNRGBA64

	// FormatRGBA64 is *image.RGBA64: 16-bit premultiplied RGBA.
	FormatRGBA64

	// FormatGray is *image.Gray: 8-bit luminance.
	FormatGray

	// FormatGray16 is *image.Gray16: 16-bit big-endian luminance.
	FormatGray16

	// FormatAlpha is *image.Alpha: 8-bit coverage only.
	FormatAlpha

	// FormatYCbCr is *image.YCbCr: planar Y'CbCr with chroma subsampling.
	FormatYCbCr

	// FormatPaletted is *image.Paletted: 8-bit indices into a palette.
	FormatPaletted

	// FormatCMYK is *image.CMYK: 8-bit ink coverage.
	FormatCMYK

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a source layout.
type FormatInfo struct {
	// BytesPerPixel is the stride of one pixel in Pix.
	// Zero for planar layouts.
	BytesPerPixel int

	// HasAlpha indicates the layout carries coverage information.
	HasAlpha bool

	// IsPremultiplied indicates color channels are scaled by alpha.
	IsPremultiplied bool

	// IsGrayscale indicates a single luminance channel.
	IsGrayscale bool

	// BitsPerChannel is the number of bits per stored channel.
	BitsPerChannel int
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatGeneric:  {HasAlpha: true, IsPremultiplied: true, BitsPerChannel: 16},
	FormatNRGBA:    {BytesPerPixel: 4, HasAlpha: true, BitsPerChannel: 8},
	FormatRGBA:     {BytesPerPixel: 4, HasAlpha: true, IsPremultiplied: true, BitsPerChannel: 8},
	FormatNRGBA64:  {BytesPerPixel: 8, HasAlpha: true, BitsPerChannel: 16},
	FormatRGBA64:   {BytesPerPixel: 8, HasAlpha: true, IsPremultiplied: true, BitsPerChannel: 16},
	FormatGray:     {BytesPerPixel: 1, IsGrayscale: true, BitsPerChannel: 8},
	FormatGray16:   {BytesPerPixel: 2, IsGrayscale: true, BitsPerChannel: 16},
	FormatAlpha:    {BytesPerPixel: 1, HasAlpha: true, BitsPerChannel: 8},
	FormatYCbCr:    {BitsPerChannel: 8},
	FormatPaletted: {BytesPerPixel: 1, HasAlpha: true, BitsPerChannel: 8},
	FormatCMYK:     {BytesPerPixel: 4, BitsPerChannel: 8},
}

// FormatOf classifies img by its concrete type.
func FormatOf(img image.Image) Format {
	switch img.(type) {
	case *image.NRGBA:
		return FormatNRGBA
	case *image.RGBA:
		return FormatRGBA
	case *image.NRGBA64:
		return FormatNRGBA64
	case *image.RGBA64:
		return FormatRGBA64
	case *image.Gray:
		return FormatGray
	case *image.Gray16:
		return FormatGray16
	case *image.Alpha:
		return FormatAlpha
	case *image.YCbCr:
		return FormatYCbCr
	case *image.Paletted:
		return FormatPaletted
	case *image.CMYK:
		return FormatCMYK
	default:
		return FormatGeneric
	}
}

// FormatOfModel returns the layout a decoder uses for color model m,
// as reported by image.DecodeConfig.
func FormatOfModel(m color.Model) Format {
	if _, ok := m.(color.Palette); ok {
		return FormatPaletted
	}
	switch m {
	case color.NRGBAModel:
		return FormatNRGBA
	case color.RGBAModel:
		return FormatRGBA
	case color.NRGBA64Model:
		return FormatNRGBA64
	case color.RGBA64Model:
		return FormatRGBA64
	case color.GrayModel:
		return FormatGray
	case color.Gray16Model:
		return FormatGray16
	case color.AlphaModel:
		return FormatAlpha
	case color.YCbCrModel:
		return FormatYCbCr
	case color.CMYKModel:
		return FormatCMYK
	default:
		return FormatGeneric
	}
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per source pixel.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// IsGrayscale returns true if this is a grayscale format.
func (f Format) IsGrayscale() bool {
	return f.Info().IsGrayscale
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGeneric:
		return "Generic"
	case FormatNRGBA:
		return "NRGBA"
	case FormatRGBA:
		return "RGBA"
	case FormatNRGBA64:
		return "NRGBA64"
	case FormatRGBA64:
		return "RGBA64"
	case FormatGray:
		return "Gray"
	case FormatGray16:
		return "Gray16"
	case FormatAlpha:
		return "Alpha"
	case FormatYCbCr:
		return "YCbCr"
	case FormatPaletted:
		return "Paletted"
	case FormatCMYK:
		return "CMYK"
	default:
		return "Unknown"
	}
}

// Describe returns the name with channel depth and alpha handling,
// e.g. "RGBA (8-bit, premultiplied alpha)".
func (f Format) Describe() string {
	info := f.Info()
	var alpha string
	switch {
	case f.IsGrayscale():
		alpha = "grayscale"
	case !f.HasAlpha():
		alpha = "opaque"
	case f.IsPremultiplied():
		alpha = "premultiplied alpha"
	default:
		alpha = "straight alpha"
	}
	return fmt.Sprintf("%s (%d-bit, %s)", f, info.BitsPerChannel, alpha)
}
