package imaging

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownscale_WithinBoundsUntouched(t *testing.T) {
	data := encodePNG(t, 100, 50)

	out, resized, err := Downscale(data, 200)
	require.NoError(t, err)
	assert.False(t, resized)
	assert.Equal(t, data, out)
}

func TestDownscale_PNGKeepsFormatAndAspect(t *testing.T) {
	data := encodePNG(t, 400, 200)

	out, resized, err := Downscale(data, 100)
	require.NoError(t, err)
	assert.True(t, resized)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestDownscale_JPEGPortrait(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 300))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	out, resized, err := Downscale(buf.Bytes(), 150)
	require.NoError(t, err)
	assert.True(t, resized)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestDownscale_Disabled(t *testing.T) {
	out, resized, err := Downscale([]byte("not an image"), 0)
	require.NoError(t, err)
	assert.False(t, resized)
	assert.Equal(t, []byte("not an image"), out)
}

func TestDownscale_InvalidImage(t *testing.T) {
	_, _, err := Downscale([]byte("not an image"), 100)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	w, h := fit(1000, 1, 10)
	assert.Equal(t, 10, w)
	assert.Equal(t, 1, h)
}

// grayPNG writes a grayscale PNG that declares width x height but carries a
// single compressed row, so the file stays tiny.
func grayPNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(data)))
		buf.Write(n[:])
		buf.WriteString(typ)
		buf.Write(data)
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		binary.BigEndian.PutUint32(n[:], crc.Sum32())
		buf.Write(n[:])
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth, grayscale colour type 0
	chunk("IHDR", ihdr)

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, err := zw.Write(make([]byte, width+1))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	chunk("IDAT", z.Bytes())
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestDownscale_RejectsHugeDeclaredSize(t *testing.T) {
	data := grayPNG(t, 15000, 15000)
	require.Less(t, len(data), 64<<10)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	out, resized, err := Downscale(data, 2000)
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, ErrTooManyPixels)
	assert.False(t, resized)
	assert.Nil(t, out)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20), "raster must not be allocated")
}

func TestDownscale_PixelBudgetBoundary(t *testing.T) {
	_, _, err := Downscale(grayPNG(t, 8000, 5001), 2000)
	assert.ErrorIs(t, err, ErrTooManyPixels)

	// At the budget the header passes; decoding then fails on the missing rows.
	_, _, err = Downscale(grayPNG(t, 8000, 5000), 2000)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooManyPixels)
}
