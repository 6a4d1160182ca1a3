package store

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

type stubAccessor struct {
	data    string
	err     error
	lastReq string
}

func (s *stubAccessor) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	s.lastReq = req.GetName()
	if s.err != nil {
		return nil, s.err
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(s.data)},
	}, nil
}

const testResource = "projects/p/secrets/jwt/versions/latest"

func TestSigningKey(t *testing.T) {
	stub := &stubAccessor{data: "s3cret\n"}
	s := &secretStore{client: stub}

	key, err := s.SigningKey(context.Background(), testResource)
	if err != nil {
		t.Fatalf("SigningKey returned error: %v", err)
	}
	if key != "s3cret" || stub.lastReq != testResource {
		t.Fatalf("got key %q from %q", key, stub.lastReq)
	}
}

func TestSigningKeyErrors(t *testing.T) {
	var nf *errs.NotFoundError
	s := &secretStore{client: &stubAccessor{err: status.Error(codes.NotFound, "gone")}}
	if _, err := s.SigningKey(context.Background(), testResource); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var ext *errs.ExternalServiceError
	s = &secretStore{client: &stubAccessor{err: status.Error(codes.Unavailable, "down")}}
	_, err := s.SigningKey(context.Background(), testResource)
	if !errors.As(err, &ext) || !ext.Transient {
		t.Fatalf("expected transient ExternalServiceError, got %v", err)
	}

	var ve *errs.ValidationError
	s = &secretStore{client: &stubAccessor{data: "  "}}
	if _, err := s.SigningKey(context.Background(), testResource); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty secret, got %v", err)
	}
}
