// Package imaging converts uploaded images into transport-safe
// representations for embedding in LLM requests.
package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/cloo-solutions/sitelens/internal/domain"
)

// AllowedContentTypes is the upload allow-list, checked before any decode
// or network call happens.
var AllowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// IsAllowedContentType reports whether the declared content type may be
// processed.
func IsAllowedContentType(contentType string) bool {
	return AllowedContentTypes[contentType]
}

// EncodeDataURI decodes PNG or JPEG bytes, re-encodes them as PNG and
// returns a base64 data URI suitable for a vision completion request,
// together with the re-encoded PNG bytes.
func EncodeDataURI(data []byte) (string, []byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnsupportedMedia, "image data could not be decoded", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to re-encode image", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/png;base64," + encoded, buf.Bytes(), nil
}
