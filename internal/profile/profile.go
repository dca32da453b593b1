// Package profile reads and edits the signed-in user's profile.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"lifesync/internal/models"
	"lifesync/pkg/logger"
)

const MaxPhotoBytes = 5 << 20

var (
	ErrInvalidGoal    = errors.New("unknown fitness goal")
	ErrInvalidValue   = errors.New("age, height and weight must not be negative")
	ErrEmptyPhoto     = errors.New("no photo uploaded")
	ErrPhotoTooLarge  = fmt.Errorf("photo exceeds %d bytes", MaxPhotoBytes)
	ErrNotAnImage     = errors.New("photo must be a PNG or JPEG image")
	ErrStorageMissing = errors.New("photo storage is not configured")
)

type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePhotoURL(ctx context.Context, userID, url string) error
}

// Uploader puts an object and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Patch carries the fields of a profile edit. Nil fields are left unchanged.
type Patch struct {
	DisplayName *string             `json:"displayName"`
	Age         *int                `json:"age"`
	HeightCm    *float64            `json:"height"`
	WeightKg    *float64            `json:"weight"`
	FitnessGoal *models.FitnessGoal `json:"fitnessGoal"`
}

// Apply merges p into u.
func (p Patch) Apply(u *models.User) error {
	if p.FitnessGoal != nil && !p.FitnessGoal.Valid() {
		return ErrInvalidGoal
	}
	if (p.Age != nil && *p.Age < 0) || (p.HeightCm != nil && *p.HeightCm < 0) || (p.WeightKg != nil && *p.WeightKg < 0) {
		return ErrInvalidValue
	}

	if p.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.HeightCm != nil {
		u.HeightCm = *p.HeightCm
	}
	if p.WeightKg != nil {
		u.WeightKg = *p.WeightKg
	}
	if p.FitnessGoal != nil {
		u.FitnessGoal = *p.FitnessGoal
	}
	return nil
}

type Service struct {
	store    Store
	uploader Uploader
	logger   *logger.Logger
	now      func() time.Time
}

// NewService builds the service. uploader may be nil, in which case photo uploads fail.
func NewService(store Store, uploader Uploader, l *logger.Logger) *Service {
	return &Service{store: store, uploader: uploader, logger: l, now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(user); err != nil {
		return nil, err
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.logger.Infow("profile updated", "user_id", userID)
	return user, nil
}

// UploadPhoto stores the image and records its URL on the profile.
func (s *Service) UploadPhoto(ctx context.Context, userID string, data []byte) (string, error) {
	if s.uploader == nil {
		return "", ErrStorageMissing
	}
	if len(data) == 0 {
		return "", ErrEmptyPhoto
	}
	if len(data) > MaxPhotoBytes {
		return "", ErrPhotoTooLarge
	}

	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return "", ErrNotAnImage
	}

	key := fmt.Sprintf("profilePhotos/%s%s", userID, mt.Extension())
	url, err := s.uploader.Upload(ctx, key, mt.String(), data)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	if err := s.store.UpdatePhotoURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("failed to save photo url: %w", err)
	}

	s.logger.Infow("profile photo uploaded", "user_id", userID, "key", key)
	return url, nil
}
