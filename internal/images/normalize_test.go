package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebilling/storebilling-backend/pkg/config"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
)

func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image, level png.CompressionLevel) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: level}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func decodedBounds(t *testing.T, data []byte) image.Rectangle {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return image.Rect(0, 0, cfg.Width, cfg.Height)
}

func TestNormalizeKeepsImagesWithinBudget(t *testing.T) {
	raw := encodePNG(t, gradient(40, 20), png.DefaultCompression)

	out, err := Normalize(raw, DefaultMaxBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MIME)
	assert.Equal(t, raw, out.Data)
}

func TestNormalizePreservesPNG(t *testing.T) {
	raw := encodePNG(t, gradient(1600, 1200), png.NoCompression)
	require.Greater(t, len(raw), DefaultMaxBytes)

	out, err := Normalize(raw, DefaultMaxBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MIME)
	assert.LessOrEqual(t, len(out.Data), DefaultMaxBytes)

	bounds := decodedBounds(t, out.Data)
	assert.LessOrEqual(t, bounds.Dx(), DefaultMaxEdge)
	assert.LessOrEqual(t, bounds.Dy(), DefaultMaxEdge)
}

func TestNormalizeReencodesAsJPEG(t *testing.T) {
	raw := encodeJPEG(t, gradient(1600, 1200), 100)
	budget := len(raw) - 1

	out, err := Normalize(raw, budget)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.MIME)
	assert.LessOrEqual(t, len(out.Data), budget)

	bounds := decodedBounds(t, out.Data)
	assert.Equal(t, 1024, bounds.Dx())
	assert.Equal(t, 768, bounds.Dy())
}

func TestNormalizeFailsWhenBudgetUnreachable(t *testing.T) {
	raw := encodeJPEG(t, gradient(200, 200), 90)

	_, err := Normalize(raw, 10)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCompressionFailed, typed.Code())
	assert.Equal(t, "unable to compress image below 10 bytes", typed.Message())
}

func TestNormalizeRejectsNonImages(t *testing.T) {
	_, err := Normalize([]byte("just some text, not a picture"), 4)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = Normalize(nil, 4)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x01}, 64)...)
	_, err = Normalize(corrupt, 8)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("abc"))

	mime, data, err := ParseDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("abc"), data)

	mime, data, err = ParseDataURL(payload)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, []byte("abc"), data)

	_, _, err = ParseDataURL("data:image/png," + payload)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, _, err = ParseDataURL("data:image/png;base64")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, _, err = ParseDataURL("%%%not-base64%%%")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNormalizerDataURLRoundTrip(t *testing.T) {
	raw := encodePNG(t, gradient(32, 32), png.DefaultCompression)
	n := NewNormalizer(config.MediaConfig{})

	out, err := n.NormalizeDataURL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/png;base64,"), "detected type wins over declared type")

	_, decoded, err := ParseDataURL(out)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
