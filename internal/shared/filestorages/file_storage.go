package filestorages

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrInvalidKey        = errors.New("invalid file key")
	ErrInvalidRootDir    = errors.New("invalid root directory")
	ErrInvalidBucket     = errors.New("invalid bucket")
)

type PutResult struct {
	FileKey string
}

type PutOptions struct {
	AllowOverwrite bool
	ContentType    string
}

// FileStorage is a write-only object store. Drivers: local directory and S3.
//
//go:generate mockgen -source=file_storage.go -destination=./mocks/file_storage_mock.go -package=mocks
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (*PutResult, error)
}

// validateKey rejects empty, absolute and parent-escaping keys.
func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	cleanPath := filepath.Clean(key)
	if cleanPath == ".." || cleanPath == "." {
		return ErrInvalidKey
	}
	if strings.HasPrefix(cleanPath, "..") {
		return ErrInvalidKey
	}
	return nil
}
