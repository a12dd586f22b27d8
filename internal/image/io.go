package image

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"

	"github.com/gogpu/compositor/internal/color"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the output format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")
)

// LoadOptions controls how a file is converted into a FloatBuf.
type LoadOptions struct {
	// Space is the encoding of the stored 8/16-bit values.
	Space color.ColorSpace

	// FitWidth and FitHeight, when both positive, rescale the decoded image
	// to exactly that size with a Catmull-Rom filter.
	FitWidth, FitHeight int
}

// Load decodes the image file at path. PNG, JPEG, BMP, TIFF and WebP are
// recognised from content.
func Load(path string, opts LoadOptions) (*FloatBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, opts)
}

// Decode decodes an image from r and converts it to linear float RGBA.
func Decode(r io.Reader, opts LoadOptions) (*FloatBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	if opts.FitWidth > 0 && opts.FitHeight > 0 {
		img = scale(img, opts.FitWidth, opts.FitHeight)
	}
	return FromImage(img, opts.Space)
}

// scale resamples img to w x h.
func scale(img image.Image, w, h int) image.Image {
	dst := image.NewNRGBA64(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FromImage converts a standard image to a FloatBuf. Colour channels are
// un-premultiplied and decoded from space; alpha is stored linearly.
func FromImage(img image.Image, space color.ColorSpace) (*FloatBuf, error) {
	bounds := img.Bounds()
	buf, err := NewFloatBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := range buf.height {
		for x := range buf.width {
			c := stdcolor.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(stdcolor.NRGBA)
			i := (y*buf.width + x) * Channels
			buf.data[i] = space.Decode(c.R)
			buf.data[i+1] = space.Decode(c.G)
			buf.data[i+2] = space.Decode(c.B)
			buf.data[i+3] = float32(c.A) / 255
		}
	}
	return buf, nil
}

// ToImage encodes the buffer as an 8-bit NRGBA image in space.
func (b *FloatBuf) ToImage(space color.ColorSpace) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := range b.height {
		for x := range b.width {
			i := (y*b.width + x) * Channels
			o := img.PixOffset(x, y)
			img.Pix[o] = space.Encode(b.data[i])
			img.Pix[o+1] = space.Encode(b.data[i+1])
			img.Pix[o+2] = space.Encode(b.data[i+2])
			img.Pix[o+3] = color.ColorSpaceLinear.Encode(b.data[i+3])
		}
	}
	return img
}

// Encode writes the buffer to w in the named format ("png", "jpeg",
// "bmp" or "tiff").
func Encode(w io.Writer, b *FloatBuf, format string, space color.ColorSpace) error {
	img := b.ToImage(space)
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "jpg", "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tif", "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", format, err)
	}
	return nil
}

// Save writes the buffer to path, choosing the format from the extension.
func Save(path string, b *FloatBuf, space color.ColorSpace) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: no extension in %q", ErrUnsupportedFormat, path)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := Encode(f, b, format, space); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
