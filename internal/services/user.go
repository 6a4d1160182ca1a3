package services

import (
	"context"
	"strings"

	"github.com/GregMSThompson/pennyweek/internal/auth"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/uploads"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type userUSStore interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, uid string) error
}

type userService struct {
	Store  userUSStore
	Photos uploads.Store
	now    Clock
}

func NewUserService(store userUSStore, photos uploads.Store, now Clock) *userService {
	return &userService{
		Store:  store,
		Photos: photos,
		now:    clockOrNow(now),
	}
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.Get(ctx, uid)
}

// UpdateUser applies a partial profile update. photo may be nil. The previous
// photo is removed once the new one is saved; failing to remove it only logs.
func (s *userService) UpdateUser(ctx context.Context, uid string, req dto.UpdateUserRequest, photo *uploads.Photo) (*models.User, error) {
	// Get logger from context - already has uid, request_id, method, path
	log := logger.FromContext(ctx)

	user, err := s.Store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.NewFieldError("name", "must not be empty")
		}
		user.Name = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.Preferences != nil {
		prefs, err := applyPreferences(user.Preferences, *req.Preferences)
		if err != nil {
			return nil, err
		}
		user.Preferences = prefs
	}

	oldPhoto := user.Photo
	if photo != nil {
		if s.Photos == nil {
			return nil, errs.NewValidationError("photo uploads are not configured")
		}
		key := uploads.ObjectKey(uid, s.now(), photo.Ext)
		url, err := s.Photos.Save(ctx, key, *photo)
		if err != nil {
			return nil, err
		}
		user.Photo = url
	}

	user.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, user); err != nil {
		log.Error("failed to update user in store", "error", err)
		return nil, err
	}

	if photo != nil && oldPhoto != "" && oldPhoto != user.Photo {
		if err := s.Photos.Delete(ctx, oldPhoto); err != nil {
			log.Warn("failed to delete previous photo", "photo", oldPhoto, "error", err)
		}
	}

	log.Info("user updated successfully")
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, uid string, req dto.ChangePasswordRequest) error {
	user, err := s.Store.Get(ctx, uid)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		return errs.NewFieldError("oldPassword", "is incorrect")
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		return errs.NewFieldError("newPassword", "must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, user); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("password changed")
	return nil
}

// DeleteUser removes the account and everything it owns, then the stored photo.
func (s *userService) DeleteUser(ctx context.Context, uid string) error {
	log := logger.FromContext(ctx)

	user, err := s.Store.Get(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, uid); err != nil {
		log.Error("failed to delete user", "error", err)
		return err
	}
	if user.Photo != "" && s.Photos != nil {
		if err := s.Photos.Delete(ctx, user.Photo); err != nil {
			log.Warn("failed to delete photo of deleted user", "photo", user.Photo, "error", err)
		}
	}

	log.Info("user deleted")
	return nil
}

var (
	themes                  = []string{"light", "dark"}
	notificationFrequencies = []string{"immediate", "daily", "weekly"}
)

func oneOf(field, value string, allowed []string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", errs.NewFieldError(field, "must be one of "+strings.Join(allowed, ", "))
}

func applyPreferences(p models.Preferences, u dto.PreferencesUpdate) (models.Preferences, error) {
	var err error
	if u.Theme != nil {
		if p.Theme, err = oneOf("preferences.theme", *u.Theme, themes); err != nil {
			return p, err
		}
	}
	if u.DefaultCurrency != nil {
		if p.DefaultCurrency, err = parseCurrency("preferences.defaultCurrency", *u.DefaultCurrency); err != nil {
			return p, err
		}
	}
	if u.NotificationFrequency != nil {
		if p.NotificationFrequency, err = oneOf("preferences.notificationFrequency", *u.NotificationFrequency, notificationFrequencies); err != nil {
			return p, err
		}
	}
	if u.Notifications != nil {
		p.Notifications = *u.Notifications
	}
	if u.EmailNotifications != nil {
		p.EmailNotifications = *u.EmailNotifications
	}
	if u.SMSNotifications != nil {
		p.SMSNotifications = *u.SMSNotifications
	}
	if u.PushNotifications != nil {
		p.PushNotifications = *u.PushNotifications
	}
	if u.DataSharing != nil {
		p.DataSharing = *u.DataSharing
	}
	if u.TwoFactor != nil {
		p.TwoFactor = *u.TwoFactor
	}
	p.Version = models.PreferencesVersion
	return p, nil
}
