package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_SmallImageUntouched(t *testing.T) {
	data := encodePNG(t, 40, 30)

	res, err := NewProcessor(85, 64).Normalize(data)
	require.NoError(t, err)

	assert.False(t, res.Resized)
	assert.Equal(t, data, res.Data)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, ".png", res.Extension)
	assert.Equal(t, 40, res.Width)
}

func TestNormalize_DownscalesKeepingRatio(t *testing.T) {
	res, err := NewProcessor(85, 64).Normalize(encodePNG(t, 256, 128))
	require.NoError(t, err)

	assert.True(t, res.Resized)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 32, res.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
}

func TestNormalize_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 200))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	res, err := NewProcessor(70, 50).Normalize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, ".jpg", res.Extension)
	assert.Equal(t, 25, res.Width)
	assert.Equal(t, 50, res.Height)
}

func TestNormalize_Garbage(t *testing.T) {
	_, err := NewProcessor(0, 0).Normalize([]byte("definitely not an image"))
	assert.Error(t, err)
}
