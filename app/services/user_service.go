package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/pkg/logger"
	"github.com/bookhive/bookhive/pkg/storage"
)

// ErrUserNotFound is returned when the account does not exist.
var ErrUserNotFound = errors.New("user not found")

// UpdateProfileInput holds the editable account fields. Empty fields are
// left untouched.
type UpdateProfileInput struct {
	Name        string
	Email       string
	PhoneNumber string
	ImageURL    string
}

// UserService covers account-level operations shared by every role.
type UserService struct {
	users    *repositories.UserRepository
	profiles *repositories.ProfileRepository
	disk     storage.Disk
}

func NewUserService(users *repositories.UserRepository, profiles *repositories.ProfileRepository, disk storage.Disk) *UserService {
	return &UserService{users: users, profiles: profiles, disk: disk}
}

// Get returns the base account.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-empty input fields and returns the fresh
// role projection. A replaced profile image is deleted from storage.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in UpdateProfileInput) (models.Profile, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != user.Email {
		if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = in.Email
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.PhoneNumber != "" {
		user.PhoneNumber = in.PhoneNumber
	}
	if in.ImageURL != "" && in.ImageURL != user.ImageURL {
		s.deleteImage(user.ImageURL)
		user.ImageURL = in.ImageURL
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("user: save %d: %w", id, err)
	}

	return s.profiles.ByUser(ctx, user)
}

// UploadImage stores a base64 data-URI image and returns its public URL.
func (s *UserService) UploadImage(ctx context.Context, dataURI string) (string, error) {
	return uploadDataURI(s.disk, "users", dataURI)
}

// deleteImage removes a previously uploaded image. URLs from other hosts
// are left alone.
func (s *UserService) deleteImage(url string) {
	if url == "" {
		return
	}
	base := s.disk.URL("")
	if base == "" || !strings.HasPrefix(url, base) {
		return
	}
	path := strings.TrimPrefix(url, base)
	if err := s.disk.Delete(strings.TrimPrefix(path, "/")); err != nil {
		logger.Warn("user: delete old image", "url", url, "error", err)
	}
}
