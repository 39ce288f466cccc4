package platform

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/lumen/engine/core"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

/** @brief Decides in which order frame buffer rows reach the file. */
type FlipPolicy int

const (
	/** @brief Row 0 of the buffer becomes the first row of the file. */
	FlipNone FlipPolicy = iota
	/** @brief The last buffer row comes first, so a bottom-left origin buffer is written upright. */
	FlipVertical
)

func (f FlipPolicy) String() string {
	if f == FlipVertical {
		return "vertical"
	}
	return "none"
}

type encoderFunc func(w io.Writer, img image.Image) error

var encoders = map[string]encoderFunc{
	".png": png.Encode,
	".bmp": bmp.Encode,
	".tif": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

func init() {
	encoders[".tiff"] = encoders[".tif"]
}

/**
 * @brief Writes 8 bit pixel buffers to image files. The encoder is picked from
 * the file extension.
 */
type ImageWriter struct {
	Flip FlipPolicy
}

func NewImageWriter(flip FlipPolicy) *ImageWriter {
	return &ImageWriter{Flip: flip}
}

/**
 * @brief Writes a w*h image with comp channels per pixel (1, 3 or 4) to path.
 *
 * @param stride The number of bytes between the starts of consecutive rows.
 */
func (iw *ImageWriter) Write(path string, w, h, comp int, pixels []byte, stride int) error {
	encode, ok := encoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("writing %s: %w", path, core.ErrUnsupportedFormat)
	}
	img, err := iw.toImage(w, h, comp, pixels, stride)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	// a failed write leaves no partial file behind
	discard := func(err error) error {
		file.Close()
		os.Remove(path)
		return err
	}
	buf := bufio.NewWriter(file)
	if err := encode(buf, img); err != nil {
		return discard(fmt.Errorf("encoding %s: %w", path, err))
	}
	if err := buf.Flush(); err != nil {
		return discard(err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return err
	}
	core.LogDebug("wrote %dx%d image to %s (flip=%s)", w, h, path, iw.Flip)
	return nil
}

func (iw *ImageWriter) toImage(w, h, comp int, pixels []byte, stride int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", w, h, core.ErrInvalidArgument)
	}
	if comp != 1 && comp != 3 && comp != 4 {
		return nil, fmt.Errorf("%d components: %w", comp, core.ErrInvalidArgument)
	}
	if stride < w*comp {
		return nil, fmt.Errorf("stride %d below row size %d: %w", stride, w*comp, core.ErrInvalidArgument)
	}
	if len(pixels) < (h-1)*stride+w*comp {
		return nil, fmt.Errorf("%d bytes for %dx%d image: %w", len(pixels), w, h, core.ErrIndexOutOfRange)
	}

	if comp == 1 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			src := pixels[iw.sourceRow(y, h)*stride:]
			copy(img.Pix[y*img.Stride:y*img.Stride+w], src[:w])
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := pixels[iw.sourceRow(y, h)*stride:]
		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
		if comp == 4 {
			copy(dst, src[:w*4])
			continue
		}
		for x := 0; x < w; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 255
		}
	}
	return img, nil
}

func (iw *ImageWriter) sourceRow(y, h int) int {
	if iw.Flip == FlipVertical {
		return h - 1 - y
	}
	return y
}

/**
 * @brief Writes a PNG exactly the way the buffer is laid out: the first buffer
 * row is the top row of the file.
 */
func WritePNG(path string, w, h, comp int, pixels []byte, stride int) error {
	if strings.ToLower(filepath.Ext(path)) != ".png" {
		return fmt.Errorf("writing %s as png: %w", path, core.ErrUnsupportedFormat)
	}
	return NewImageWriter(FlipNone).Write(path, w, h, comp, pixels, stride)
}
