package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"stashbox/config"

	"github.com/google/uuid"
)

// ObjectStorage abstracts where file bytes live. Save returns the number of
// bytes written; the caller owns key construction so keys stay stable across
// backends.
type ObjectStorage interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Delete(ctx context.Context, key string) error
	AbsPath(key string) string
	PublicURL(key string) string
}

type localObjectStorage struct {
	basePath      string
	publicBaseURL string
}

func NewLocalObjectStorage(basePath, publicBaseURL string) ObjectStorage {
	return &localObjectStorage{basePath: basePath, publicBaseURL: publicBaseURL}
}

func (s *localObjectStorage) AbsPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

func (s *localObjectStorage) PublicURL(key string) string {
	if s.publicBaseURL == "" {
		return ""
	}
	return s.publicBaseURL + "/" + key
}

func (s *localObjectStorage) Save(_ context.Context, key string, r io.Reader) (int64, error) {
	absPath := s.AbsPath(key)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return 0, err
	}
	dst, err := os.Create(absPath)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(dst, r)
	if err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return 0, err
	}
	return written, dst.Close()
}

func (s *localObjectStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(s.AbsPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// buildStorageKey yields files/<user>/<year>/<month>/<uuid>_<name>. Keys are
// immutable once a row references them.
func buildStorageKey(userID uint, originalName string) string {
	now := time.Now()
	name := uuid.New().String() + "_" + sanitizeFilename(originalName)
	return filepath.ToSlash(filepath.Join(
		"files", fmt.Sprintf("%d", userID), now.Format("2006"), now.Format("01"), name,
	))
}

func buildThumbnailKey(storageKey string) string {
	dir := filepath.ToSlash(filepath.Dir(storageKey))
	base := filepath.Base(storageKey)
	ext := filepath.Ext(base)
	return "thumbnails/" + dir[len("files/"):] + "/" + base[:len(base)-len(ext)] + "_thumb.jpg"
}

func defaultObjectStorage() ObjectStorage {
	cfg := config.AppConfig
	return NewLocalObjectStorage(cfg.Storage.BasePath, cfg.Share.PublicBaseURL)
}
