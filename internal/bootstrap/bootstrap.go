package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"

	pwauth "github.com/GregMSThompson/pennyweek/internal/auth"
	"github.com/GregMSThompson/pennyweek/internal/config"
	"github.com/GregMSThompson/pennyweek/internal/store/mongodb"
	"github.com/GregMSThompson/pennyweek/internal/uploads"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Mongo     *mongodb.DB
	Firebase  *auth.Client
	Storage   *storage.Client
	Stores    Stores
	Tokens    *pwauth.TokenManager
	Verifier  pwauth.Verifier
	Photos    uploads.Store
	UploadDir string
}

// Run builds the clients the api needs. The worker only needs the stores, so
// it passes withHTTP false to skip auth and photo storage.
func Run(cfg *config.Config, withHTTP bool) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.HandlerFor(cfg.LogFormat))
	if err = cfg.Validate(); err != nil {
		return bs, err
	}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		bs.Mongo, err = InitMongo(applicationCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return bs, fmt.Errorf("mongo: %w", err)
		}
		bs.Stores = mongoStores(bs.Mongo)
	default:
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, fmt.Errorf("firestore: %w", err)
		}
		bs.Stores = firestoreStores(bs.Firestore)
	}
	bs.Log.Info("store ready", "backend", cfg.StoreBackend)

	if !withHTTP {
		return bs, nil
	}

	secret, err := signingKey(applicationCtx, cfg)
	if err != nil {
		return bs, fmt.Errorf("signing key: %w", err)
	}
	bs.Tokens = pwauth.NewTokenManager(secret, cfg.JWTIssuer, cfg.JWTTTL)
	bs.Verifier = bs.Tokens

	if cfg.AuthProvider == config.AuthFirebase {
		bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, fmt.Errorf("firebase: %w", err)
		}
		bs.Verifier = pwauth.Chain(bs.Tokens, pwauth.NewFirebaseVerifier(bs.Firebase))
	}

	bs.Photos, bs.Storage, bs.UploadDir, err = initPhotos(applicationCtx, cfg)
	if err != nil {
		return bs, fmt.Errorf("photos: %w", err)
	}
	return bs, nil
}

func (bs *Bootstrap) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("closing firestore", "error", err)
		}
	}
	if bs.Mongo != nil {
		if err := bs.Mongo.Close(ctx); err != nil {
			bs.Log.Warn("closing mongo", "error", err)
		}
	}
	if bs.Storage != nil {
		if err := bs.Storage.Close(); err != nil {
			bs.Log.Warn("closing storage", "error", err)
		}
	}
}
