package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"

	AuthLocal    = "local"
	AuthFirebase = "firebase"
)

type Config struct {
	Port          string
	ProjectID     string
	LogLevel      string
	LogFormat     string
	StoreBackend  string
	MongoURI      string
	MongoDB       string
	AuthProvider  string
	JWTSecret     string
	JWTSecretName string
	JWTIssuer     string
	JWTTTL        time.Duration
	PhotoBucket   string
	UploadDir     string
	CORSOrigins   []string
	ExpansionCron string
}

// LoadDotEnv loads a .env file when one exists. Variables already set in the
// environment win.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

func New() *Config {
	cfg := &Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		ProjectID:     strings.TrimSpace(os.Getenv("PROJECTID")),
		LogLevel:      fallback(os.Getenv("LOGLEVEL"), "info"),
		LogFormat:     fallback(os.Getenv("LOGFORMAT"), "json"),
		StoreBackend:  strings.ToLower(fallback(os.Getenv("STORE_BACKEND"), BackendFirestore)),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDB:       fallback(os.Getenv("MONGODB_DB"), "pennyweek"),
		AuthProvider:  strings.ToLower(fallback(os.Getenv("AUTH_PROVIDER"), AuthLocal)),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTSecretName: strings.TrimSpace(os.Getenv("JWT_SECRET_NAME")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "pennyweek"),
		JWTTTL:        60 * time.Minute,
		PhotoBucket:   strings.TrimSpace(os.Getenv("PHOTO_BUCKET")),
		UploadDir:     fallback(os.Getenv("UPLOAD_DIR"), "uploads"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		ExpansionCron: fallback(os.Getenv("EXPANSION_CRON"), "@every 1h"),
	}
	if minutes, err := strconv.Atoi(fallback(os.Getenv("JWT_TTL_MINUTES"), "60")); err == nil && minutes > 0 {
		cfg.JWTTTL = time.Duration(minutes) * time.Minute
	}
	return cfg
}

// Validate reports every setting that would stop the service from starting.
func (c *Config) Validate() error {
	var problems []error

	switch c.StoreBackend {
	case BackendFirestore:
		if c.ProjectID == "" {
			problems = append(problems, errors.New("PROJECTID is required for the firestore backend"))
		}
	case BackendMongo:
		if c.MongoURI == "" {
			problems = append(problems, errors.New("MONGODB_URI is required for the mongo backend"))
		}
	default:
		problems = append(problems, fmt.Errorf("STORE_BACKEND must be %s or %s, got %q", BackendFirestore, BackendMongo, c.StoreBackend))
	}

	switch c.AuthProvider {
	case AuthLocal, AuthFirebase:
	default:
		problems = append(problems, fmt.Errorf("AUTH_PROVIDER must be %s or %s, got %q", AuthLocal, AuthFirebase, c.AuthProvider))
	}

	// login always issues session tokens, whichever provider verifies them
	if c.JWTSecret == "" && c.JWTSecretName == "" {
		problems = append(problems, errors.New("JWT_SECRET or JWT_SECRET_NAME is required"))
	}
	if c.JWTSecretName != "" && c.ProjectID == "" && !strings.HasPrefix(c.JWTSecretName, "projects/") {
		problems = append(problems, errors.New("JWT_SECRET_NAME must be a full resource name when PROJECTID is unset"))
	}

	return errors.Join(problems...)
}

// SecretResource expands a short JWT_SECRET_NAME into a Secret Manager
// version resource name.
func (c *Config) SecretResource() string {
	if strings.HasPrefix(c.JWTSecretName, "projects/") {
		return c.JWTSecretName
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.ProjectID, c.JWTSecretName)
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
