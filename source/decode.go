// Package source decodes encoded image files into images that carry
// their EXIF orientation, ready for pixparse.Extract.
//
// Supported formats are JPEG, PNG and GIF from the standard library and
// BMP, TIFF and WebP from golang.org/x/image. Orientation is read from
// EXIF data in JPEG and TIFF files; every other format is TopLeft.
//
//	img, err := source.Open("photo.jpg")
//	if err != nil {
//	    return err
//	}
//	buf, err := pixparse.Extract(img) // upright pixels
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/gogpu/pixparse"
	intImage "github.com/gogpu/pixparse/internal/image"
)

var errEmpty = errors.New("empty input")

// Image is a decoded image together with its container format and EXIF
// orientation. It implements image.Image with the stored geometry and
// pixparse.Oriented.
type Image struct {
	image.Image
	format      string
	orientation pixparse.Orientation
}

// Format returns the name of the decoder that produced the image,
// e.g. "jpeg" or "png".
func (i *Image) Format() string { return i.format }

// Layout names the in-memory pixel layout of the decoded image, e.g.
// "YCbCr" for baseline JPEG or "Paletted" for GIF. Layouts without a
// dedicated conversion path report "Generic".
func (i *Image) Layout() string { return intImage.FormatOf(i.Image).String() }

// LayoutDetail describes the layout with its channel depth and alpha
// handling, e.g. "RGBA (8-bit, premultiplied alpha)".
func (i *Image) LayoutDetail() string { return intImage.FormatOf(i.Image).Describe() }

// Orientation returns the EXIF orientation, TopLeft when the file has none.
func (i *Image) Orientation() pixparse.Orientation { return i.orientation }

// Stored returns the image in storage order.
func (i *Image) Stored() image.Image { return i.Image }

// Config describes an encoded image without decoding its pixels.
type Config struct {
	Format      string
	Width       int
	Height      int
	ColorModel  string
	Orientation pixparse.Orientation

	// Layout describes the pixel layout the decoder will produce,
	// e.g. "YCbCr (8-bit, opaque)".
	Layout string
}

// VisualSize returns the dimensions after orientation is applied.
func (c Config) VisualSize() (w, h int) {
	return c.Orientation.Size(c.Width, c.Height)
}

// Decode reads and decodes an image from r.
// Read errors from r are returned wrapped, not as ErrDecode.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: reading image: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an image held in memory.
// data is not retained.
func DecodeBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, &pixparse.Error{Op: "decode", Kind: pixparse.ErrInvalidImage, Err: errEmpty}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &pixparse.Error{Op: "decode", Kind: pixparse.ErrDecode, Err: err}
	}
	b := img.Bounds()
	o := orientation(data, format)

	pixparse.Logger().Debug("source: decoded image",
		"format", format,
		"layout", intImage.FormatOf(img).Describe(),
		"width", b.Dx(),
		"height", b.Dy(),
		"orientation", o.String())

	return &Image{Image: img, format: format, orientation: o}, nil
}

// Open decodes the image file at path.
// A file that cannot be read returns the *fs.PathError from os.ReadFile;
// only the contents are subject to ErrInvalidImage and ErrDecode.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeConfig reads the dimensions, color model and orientation of the
// image in r without decoding its pixels.
func DecodeConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("source: reading image: %w", err)
	}
	if len(data) == 0 {
		return Config{}, &pixparse.Error{Op: "config", Kind: pixparse.ErrInvalidImage, Err: errEmpty}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, &pixparse.Error{Op: "config", Kind: pixparse.ErrDecode, Err: err}
	}
	return Config{
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ColorModel:  modelName(cfg.ColorModel),
		Orientation: orientation(data, format),
		Layout:      intImage.FormatOfModel(cfg.ColorModel).Describe(),
	}, nil
}

// orientation returns the EXIF orientation of data, or TopLeft if the
// format carries no EXIF or the tag is missing or invalid.
func orientation(data []byte, format string) pixparse.Orientation {
	switch format {
	case "jpeg", "tiff":
	default:
		return pixparse.OrientationTopLeft
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		pixparse.Logger().Debug("source: no exif data", "format", format, "error", err)
		return pixparse.OrientationTopLeft
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return pixparse.OrientationTopLeft
	}
	v, err := tag.Int(0)
	if err != nil {
		pixparse.Logger().Warn("source: malformed orientation tag", "error", err)
		return pixparse.OrientationTopLeft
	}

	if v < 1 || v > 8 {
		pixparse.Logger().Warn("source: orientation out of range", "value", v)
		return pixparse.OrientationTopLeft
	}
	return pixparse.Orientation(v)
}

// modelName returns a short name for the standard color models.
func modelName(m color.Model) string {
	if p, ok := m.(color.Palette); ok {
		return fmt.Sprintf("Paletted(%d)", len(p))
	}
	if f := intImage.FormatOfModel(m); f != intImage.FormatGeneric {
		return f.String()
	}
	switch m {
	case color.Alpha16Model:
		return "Alpha16"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	}
	return "Unknown"
}
