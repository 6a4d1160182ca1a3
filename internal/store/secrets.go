package store

import (
	"context"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// secretStore reads the session signing key from Secret Manager.
// Resource names look like projects/{project}/secrets/{name}/versions/{version}.
type secretStore struct {
	client secretAccessor
}

func NewSecretStore(client *secretmanager.Client) *secretStore {
	return &secretStore{client: client}
}

func (s *secretStore) SigningKey(ctx context.Context, resource string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: resource})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return "", errs.NewNotFoundError("secret " + resource + " not found")
		case codes.Unavailable, codes.DeadlineExceeded:
			return "", errs.NewExternalServiceError("secretmanager", "secret manager unavailable", true, err)
		default:
			return "", errs.NewExternalServiceError("secretmanager", "failed to access secret", false, err)
		}
	}
	key := strings.TrimSpace(string(res.GetPayload().GetData()))
	if key == "" {
		return "", errs.NewValidationError("secret " + resource + " is empty")
	}
	return key, nil
}
