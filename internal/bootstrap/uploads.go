package bootstrap

import (
	"context"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/pennyweek/internal/config"
	"github.com/GregMSThompson/pennyweek/internal/uploads"
)

// initPhotos uses the bucket when PHOTO_BUCKET is set and the local upload
// directory otherwise. localDir is empty for the bucket backend.
func initPhotos(ctx context.Context, cfg *config.Config) (photos uploads.Store, client *storage.Client, localDir string, err error) {
	if cfg.PhotoBucket != "" {
		client, err = storage.NewClient(ctx)
		if err != nil {
			return nil, nil, "", err
		}
		return uploads.NewGCSStore(client, cfg.PhotoBucket), client, "", nil
	}
	local, err := uploads.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, nil, "", err
	}
	return local, nil, local.Dir(), nil
}
