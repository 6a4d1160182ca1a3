package bootstrap

import (
	"context"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/pennyweek/internal/config"
	"github.com/GregMSThompson/pennyweek/internal/store"
)

// signingKey prefers Secret Manager when JWT_SECRET_NAME is set.
func signingKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.JWTSecretName == "" {
		return cfg.JWTSecret, nil
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return store.NewSecretStore(client).SigningKey(ctx, cfg.SecretResource())
}
