package storage

import (
	"context"
	"fmt"
)

type Config struct {
	Driver    string
	MediaRoot string
	MediaURL  string
	S3        S3Config
}

// New returns the driver named by cfg.Driver ("s3" or "local").
func New(ctx context.Context, cfg Config) (ImageStorage, error) {
	switch cfg.Driver {
	case "s3":
		s3, err := NewAwsS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3, nil
	case "local", "":
		return NewLocalStorage(cfg.MediaRoot, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
