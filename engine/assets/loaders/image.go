package loaders

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// ImageLoader decodes png, bmp and tiff files into 8 bit pixels.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	typedParams := &metadata.ImageResourceParams{}
	if params != nil {
		p, ok := params.(*metadata.ImageResourceParams)
		if !ok {
			return nil, fmt.Errorf("image loader: params are %T: %w", params, core.ErrInvalidArgument)
		}
		typedParams = p
	}
	channels := typedParams.Channels
	if channels == 0 {
		channels = 4
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("image loader: %d channels: %w", channels, core.ErrInvalidArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w: %w", path, core.ErrUnsupportedFormat, err)
	}

	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]uint8, 0, width*height*int(channels))
	for row := 0; row < height; row++ {
		y := row
		if typedParams.FlipY {
			y = height - 1 - row
		}
		line := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
		if channels == 4 {
			pixels = append(pixels, line...)
			continue
		}
		for x := 0; x < width; x++ {
			pixels = append(pixels, line[x*4:x*4+3]...)
		}
	}

	core.LogDebug("loaded %s image %s (%dx%d)", format, path, width, height)
	return &metadata.Resource{
		Type:     metadata.ResourceTypeImage,
		Name:     format,
		FullPath: path,
		DataSize: uint64(len(pixels)),
		Data: &metadata.ImageResourceData{
			ChannelCount: channels,
			Width:        uint32(width),
			Height:       uint32(height),
			Pixels:       pixels,
		},
	}, nil
}

func (il *ImageLoader) Unload(*metadata.Resource) error {
	return nil
}
