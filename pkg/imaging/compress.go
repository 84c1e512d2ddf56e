// Package imaging shrinks oversized photo uploads before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// JPEGQuality is used when re-encoding a downscaled JPEG.
const JPEGQuality = 80

// MaxPixels bounds the raster Downscale will decode. A decoded image costs
// about four bytes per pixel regardless of how small the upload is.
const MaxPixels = 40_000_000

// ErrTooManyPixels is returned for images whose declared size exceeds MaxPixels.
var ErrTooManyPixels = errors.New("image resolution too large")

// Downscale resizes an image so its longest side is at most maxDimension,
// keeping the aspect ratio and the original format. Images already within
// bounds are returned untouched with resized=false. The header is checked
// against MaxPixels before any pixel data is decoded.
func Downscale(data []byte, maxDimension int) (out []byte, resized bool, err error) {
	if maxDimension <= 0 {
		return data, false, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, false, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	newWidth, newHeight := fit(cfg.Width, cfg.Height, maxDimension)
	if newWidth == cfg.Width && newHeight == cfg.Height {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

func fit(width, height, maxDimension int) (int, int) {
	if width >= height {
		if width <= maxDimension {
			return width, height
		}
		h := int(float64(height) * float64(maxDimension) / float64(width))
		return maxDimension, max(h, 1)
	}
	if height <= maxDimension {
		return width, height
	}
	w := int(float64(width) * float64(maxDimension) / float64(height))
	return max(w, 1), maxDimension
}
