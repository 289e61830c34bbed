package display

import (
	"image/png"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"

	"github.com/df07/go-bidi-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for image formats that cannot be written
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output image encoding
type Format string

const (
	FormatPNG  Format = "png"  // 8-bit RGBA
	FormatTIFF Format = "tiff" // 16-bit RGBA, deflate compressed
)

// ParseFormat resolves a format name. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Extension returns the file extension, dot included
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the encoding
func (f Format) ContentType() string {
	switch f {
	case FormatTIFF:
		return "image/tiff"
	}
	return "image/png"
}

// Encode tone maps r and writes it to w
func (f Format) Encode(w io.Writer, r *renderer.Raster, exposure float64) error {
	switch f {
	case FormatPNG:
		return errors.Wrap(png.Encode(w, ToRGBA(r, exposure)), "encoding png")
	case FormatTIFF:
		opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
		return errors.Wrap(tiff.Encode(w, ToRGBA64(r, exposure), opts), "encoding tiff")
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", string(f))
}
