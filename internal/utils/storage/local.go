package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes images under root; they are served from baseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LocalStorage) SaveBase64(_ context.Context, folder, dataURL string) (string, error) {
	ext, _, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	objectKey := newObjectKey(folder, ext)
	target := filepath.Join(l.root, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media folder: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return l.baseURL + "/" + objectKey, nil
}

func (l *LocalStorage) Delete(_ context.Context, url string) error {
	objectKey, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok || strings.Contains(objectKey, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(objectKey)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
