// Package storage persists uploaded images. Clients send images as base64
// data URLs; drivers store the bytes and hand back a public URL.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"slices"
	"strings"

	"foodgram/domain"

	"github.com/google/uuid"
)

var (
	AllowImage = []string{"png", "jpg", "jpeg", "gif", "webp"}

	ErrInvalidImage = fmt.Errorf("%w: image must be a base64 data URL", domain.ErrValidation)
	ErrImageType    = fmt.Errorf("%w: image type not allowed", domain.ErrValidation)
)

type ImageStorage interface {
	// SaveBase64 stores dataURL under folder and returns its public URL.
	SaveBase64(ctx context.Context, folder, dataURL string) (string, error)
	// Delete removes the object behind a URL previously returned by
	// SaveBase64. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// DecodeDataURL splits "data:image/<ext>;base64,<payload>" into the file
// extension, content type and decoded bytes.
func DecodeDataURL(dataURL string) (ext, contentType string, data []byte, err error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", "", nil, ErrInvalidImage
	}

	contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	kind, ext, ok := strings.Cut(contentType, "/")
	if !ok || kind != "image" {
		return "", "", nil, ErrImageType
	}
	ext = strings.ToLower(ext)
	if !slices.Contains(AllowImage, ext) {
		return "", "", nil, fmt.Errorf("%w: %s", ErrImageType, ext)
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", "", nil, ErrInvalidImage
	}
	return ext, contentType, data, nil
}

func newObjectKey(folder, ext string) string {
	return path.Join(folder, uuid.NewString()+"."+ext)
}
