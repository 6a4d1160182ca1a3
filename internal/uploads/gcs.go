package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

const gcsBaseURL = "https://storage.googleapis.com"

type gcsStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *gcsStore {
	return &gcsStore{client: client, bucket: bucket}
}

func (s *gcsStore) Save(ctx context.Context, key string, photo Photo) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = photo.ContentType
	if _, err := w.Write(photo.Data); err != nil {
		w.Close()
		return "", errs.NewExternalServiceError("storage", "failed to upload photo", true, err)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewExternalServiceError("storage", "failed to upload photo", true, err)
	}
	return fmt.Sprintf("%s/%s/%s", gcsBaseURL, s.bucket, key), nil
}

func (s *gcsStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, fmt.Sprintf("%s/%s/", gcsBaseURL, s.bucket))
	if !ok || key == "" {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return errs.NewExternalServiceError("storage", "failed to delete photo", true, err)
	}
	return nil
}
