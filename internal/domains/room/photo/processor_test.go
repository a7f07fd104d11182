package photo_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"

	"simaru/config"
	"simaru/internal/domains/room/photo"
	"simaru/shared/failure"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func gifBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{color.Black, color.White})

	var buf bytes.Buffer
	assert.NoError(t, gif.Encode(&buf, img, nil))

	return buf.Bytes()
}

func TestProcessor_Process(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.PhotoMaxSizeMB = 2
	cfg.Storage.PhotoMaxEdge = 100

	processor := photo.NewProcessor(cfg)

	t.Run("small png is stored as is", func(t *testing.T) {
		data := pngBytes(t, 50, 40)

		img, err := processor.Process(bytes.NewReader(data))

		assert.NoError(t, err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, ".png", img.Extension)
		assert.Equal(t, data, img.Data)
	})

	t.Run("large png is fitted into the max edge", func(t *testing.T) {
		img, err := processor.Process(bytes.NewReader(pngBytes(t, 400, 200)))

		assert.NoError(t, err)

		decoded, err := imaging.Decode(bytes.NewReader(img.Data))
		assert.NoError(t, err)
		assert.Equal(t, 100, decoded.Bounds().Dx())
		assert.Equal(t, 50, decoded.Bounds().Dy())
	})

	t.Run("gif is never resized", func(t *testing.T) {
		data := gifBytes(t, 400, 400)

		img, err := processor.Process(bytes.NewReader(data))

		assert.NoError(t, err)
		assert.Equal(t, "image/gif", img.ContentType)
		assert.Equal(t, data, img.Data)
	})

	t.Run("content type is sniffed, not trusted", func(t *testing.T) {
		_, err := processor.Process(strings.NewReader("<?php echo 'not an image'; ?>"))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("oversized upload is rejected", func(t *testing.T) {
		_, err := processor.Process(bytes.NewReader(make([]byte, 2*1024*1024+1)))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Contains(t, err.Error(), "2 MB")
	})
}

func TestNewKey(t *testing.T) {
	first := photo.NewKey("uploads/rooms", ".jpg")
	second := photo.NewKey("uploads/rooms", "jpg")

	assert.True(t, strings.HasPrefix(first, "uploads/rooms/"))
	assert.True(t, strings.HasSuffix(first, ".jpg"))
	assert.True(t, strings.HasSuffix(second, ".jpg"))
	assert.NotEqual(t, first, second)
}
