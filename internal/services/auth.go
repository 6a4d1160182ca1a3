package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/pennyweek/internal/auth"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type authUserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type tokenIssuer interface {
	Generate(user *models.User) (string, error)
}

type authService struct {
	Store  authUserStore
	Tokens tokenIssuer
	now    Clock
}

func NewAuthService(store authUserStore, tokens tokenIssuer, now Clock) *authService {
	return &authService{Store: store, Tokens: tokens, now: clockOrNow(now)}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.AuthResponse{}, errs.NewFieldError("name", "is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if len(req.Password) < auth.MinPasswordLength {
		return dto.AuthResponse{}, errs.NewFieldError("password", "must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Create(ctx, user); err != nil {
		log.Warn("failed to create user", "error", err)
		return dto.AuthResponse{}, err
	}

	token, err := s.Tokens.Generate(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	log.Info("user registered", "uid", user.ID)
	return dto.AuthResponse{Token: token, User: user}, nil
}

// Login does not reveal whether the email or the password was wrong.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	invalid := errs.NewAuthenticationError("invalid credentials")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return dto.AuthResponse{}, invalid
	}

	user, err := s.Store.GetByEmail(ctx, email)
	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		return dto.AuthResponse{}, invalid
	}
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return dto.AuthResponse{}, invalid
	}

	token, err := s.Tokens.Generate(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	logger.FromContext(ctx).Info("user logged in", "uid", user.ID)
	return dto.AuthResponse{Token: token, User: user}, nil
}
