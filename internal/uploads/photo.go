// Package uploads validates profile photos and persists them to a Cloud
// Storage bucket or a local directory.
package uploads

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

const MaxPhotoBytes = 5 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type Photo struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Store persists photos under a key and returns the public URL.
type Store interface {
	Save(ctx context.Context, key string, photo Photo) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewPhoto sniffs data and accepts only JPEG or PNG images up to MaxPhotoBytes.
func NewPhoto(data []byte) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, errs.NewFieldError("photo", "is empty")
	}
	if len(data) > MaxPhotoBytes {
		return Photo{}, errs.NewFieldError("photo", "must be 5MB or smaller")
	}
	ct := http.DetectContentType(data)
	ext, ok := allowedTypes[ct]
	if !ok {
		return Photo{}, errs.NewFieldError("photo", "must be a JPEG or PNG image")
	}
	return Photo{Data: data, ContentType: ct, Ext: ext}, nil
}

// ObjectKey names a user's photo; the timestamp keeps replacements from
// colliding with cached copies of the previous one.
func ObjectKey(uid string, now time.Time, ext string) string {
	return fmt.Sprintf("%s-%d%s", uid, now.UnixMilli(), ext)
}
