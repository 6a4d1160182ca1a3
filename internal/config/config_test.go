package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"PORT", "PROJECTID", "LOGLEVEL", "LOGFORMAT", "STORE_BACKEND", "MONGODB_URI", "MONGODB_DB",
	"AUTH_PROVIDER", "JWT_SECRET", "JWT_SECRET_NAME", "JWT_ISSUER", "JWT_TTL_MINUTES",
	"PHOTO_BUCKET", "UPLOAD_DIR", "CORS_ALLOWED_ORIGINS", "EXPANSION_CRON",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestNewDefaults(t *testing.T) {
	clearEnv(t)
	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, BackendFirestore, cfg.StoreBackend)
	assert.Equal(t, AuthLocal, cfg.AuthProvider)
	assert.Equal(t, "pennyweek", cfg.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "@every 1h", cfg.ExpansionCron)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestNewOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := New()
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestNewIgnoresBadTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_TTL_MINUTES", "-5")
	assert.Equal(t, time.Hour, New().JWTTTL)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr []string
	}{
		"firestore ok": {
			cfg: Config{StoreBackend: BackendFirestore, ProjectID: "p", AuthProvider: AuthLocal, JWTSecret: "s"},
		},
		"mongo ok with secret manager": {
			cfg: Config{StoreBackend: BackendMongo, MongoURI: "mongodb://x", AuthProvider: AuthFirebase, JWTSecretName: "projects/p/secrets/jwt/versions/1"},
		},
		"firestore without project": {
			cfg:     Config{StoreBackend: BackendFirestore, AuthProvider: AuthLocal, JWTSecret: "s"},
			wantErr: []string{"PROJECTID"},
		},
		"everything wrong": {
			cfg:     Config{StoreBackend: "postgres", AuthProvider: "saml"},
			wantErr: []string{"STORE_BACKEND", "AUTH_PROVIDER", "JWT_SECRET"},
		},
		"mongo without uri": {
			cfg:     Config{StoreBackend: BackendMongo, AuthProvider: AuthLocal, JWTSecret: "s"},
			wantErr: []string{"MONGODB_URI"},
		},
		"short secret name without project": {
			cfg:     Config{StoreBackend: BackendMongo, MongoURI: "mongodb://x", AuthProvider: AuthLocal, JWTSecretName: "jwt"},
			wantErr: []string{"full resource name"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if len(tc.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tc.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestSecretResource(t *testing.T) {
	cfg := Config{ProjectID: "proj", JWTSecretName: "jwt-key"}
	assert.Equal(t, "projects/proj/secrets/jwt-key/versions/latest", cfg.SecretResource())

	cfg.JWTSecretName = "projects/other/secrets/k/versions/3"
	assert.Equal(t, "projects/other/secrets/k/versions/3", cfg.SecretResource())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\n"), 0o600))

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "9090", New().Port)
	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
