package uploads

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

// LocalURLPrefix is where the router serves the local upload directory.
const LocalURLPrefix = "/uploads/"

type localStore struct {
	dir string
}

func NewLocalStore(dir string) (*localStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Dir() string { return s.dir }

func (s *localStore) Save(_ context.Context, key string, photo Photo) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, filepath.Base(key)), photo.Data, 0o644); err != nil {
		return "", errs.NewExternalServiceError("uploads", "failed to save photo", false, err)
	}
	return LocalURLPrefix + key, nil
}

func (s *localStore) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, LocalURLPrefix)
	if !ok || key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.NewExternalServiceError("uploads", "failed to delete photo", false, err)
	}
	return nil
}
