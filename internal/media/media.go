// Package media serves book cover images from a local directory or an S3 bucket.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

type Config struct {
	Driver    string `yaml:"driver"` // fs | s3
	Dir       string `yaml:"dir"`    // fs only
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // MinIO 等
	PathStyle bool   `yaml:"path_style"`
	Prefix    string `yaml:"prefix"` // s3 only
}

var ErrNotFound = errors.New("cover not found")

// CoverStore looks up the png cover of a book by its key.
type CoverStore interface {
	Exists(ctx context.Context, bookKey int64) (bool, error)
	// Open returns ErrNotFound when the book has no cover.
	Open(ctx context.Context, bookKey int64) (io.ReadCloser, error)
}

func Open(ctx context.Context, cfg Config) (CoverStore, error) {
	switch cfg.Driver {
	case DriverFS, "":
		return NewFS(cfg.Dir), nil
	case DriverS3:
		return OpenS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}

func fileName(bookKey int64) string {
	return strconv.FormatInt(bookKey, 10) + ".png"
}
