package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImageBytes(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestIsAllowedContentType(t *testing.T) {
	assert.True(t, IsAllowedContentType("image/png"))
	assert.True(t, IsAllowedContentType("image/jpeg"))
	assert.True(t, IsAllowedContentType("image/jpg"))
	assert.False(t, IsAllowedContentType("image/gif"))
	assert.False(t, IsAllowedContentType("application/pdf"))
	assert.False(t, IsAllowedContentType(""))
}

func TestEncodeDataURI_PNG(t *testing.T) {
	data := testImageBytes(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})

	dataURI, pngBytes, err := EncodeDataURI(data)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))
	assert.NotEmpty(t, pngBytes)

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)

	_, format, err := image.Decode(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestEncodeDataURI_JPEGIsReencodedAsPNG(t *testing.T) {
	data := testImageBytes(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})

	dataURI, pngBytes, err := EncodeDataURI(data)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))

	_, format, err := image.Decode(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestEncodeDataURI_InvalidData(t *testing.T) {
	dataURI, pngBytes, err := EncodeDataURI([]byte("not an image"))

	assert.Empty(t, dataURI)
	assert.Nil(t, pngBytes)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnsupportedMedia, domainErr.Code)
}
