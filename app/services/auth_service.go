// Package services holds the business logic between controllers and
// repositories. Services return sentinel errors; controllers map those to
// HTTP statuses.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/pkg/auth"
)

var (
	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// a login response never reveals which of the two failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRoleMismatch is returned by Login when the account exists but was
	// registered under a different role than the one requested.
	ErrRoleMismatch = errors.New("role does not match account")
)

// SignUpInput carries the fields common to every role. ShopName is only
// consulted for sellers; when empty the shop is named after the seller.
type SignUpInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
	ImageURL    string
	ShopName    string
}

// creatorFunc builds the role projection for a freshly validated sign-up.
// The role is an explicit argument; nothing is parked in shared state
// between the dispatch and the creation.
type creatorFunc func(ctx context.Context, role models.Role, in SignUpInput) (models.Profile, error)

// AuthService implements sign-up and login for all roles.
type AuthService struct {
	users    *repositories.UserRepository
	profiles *repositories.ProfileRepository
	creators map[models.Role]creatorFunc
}

func NewAuthService(users *repositories.UserRepository, profiles *repositories.ProfileRepository) *AuthService {
	s := &AuthService{users: users, profiles: profiles}
	s.creators = map[models.Role]creatorFunc{
		models.RoleAdmin:    s.createStaff,
		models.RoleSeller:   s.createMember,
		models.RoleCustomer: s.createMember,
	}
	return s
}

// SignUp registers a new account under the named role and returns its
// projection. Fails with models.ErrInvalidRole or ErrEmailTaken.
func (s *AuthService) SignUp(ctx context.Context, roleName string, in SignUpInput) (models.Profile, error) {
	role, err := models.ParseRole(roleName)
	if err != nil {
		return nil, err
	}
	return s.creators[role](ctx, role, in)
}

// Login authenticates the account and returns its projection. The requested
// role must match the stored one; an Admin cannot log in through the
// customer form even with correct credentials.
func (s *AuthService) Login(ctx context.Context, roleName, email, password string) (models.Profile, error) {
	role, err := models.ParseRole(roleName)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup %q: %w", email, err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if user.Role != role {
		return nil, ErrRoleMismatch
	}

	return s.profiles.ByUser(ctx, user)
}

// createAccount inserts the base user row shared by every creator.
func (s *AuthService) createAccount(ctx context.Context, role models.Role, in SignUpInput) (*models.User, error) {
	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("auth: lookup %q: %w", in.Email, err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Email:       in.Email,
		Password:    hash,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		ImageURL:    in.ImageURL,
		Status:      true,
		Role:        role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return &user, nil
}

// createMember provisions sellers and customers. Sellers get a shop in the
// same step.
func (s *AuthService) createMember(ctx context.Context, role models.Role, in SignUpInput) (models.Profile, error) {
	user, err := s.createAccount(ctx, role, in)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleSeller:
		shopName := in.ShopName
		if shopName == "" {
			shopName = fmt.Sprintf("%s's Shop", user.Name)
		}
		return s.profiles.CreateSeller(ctx, user.ID, shopName)
	default:
		return s.profiles.CreateCustomer(ctx, user.ID)
	}
}

// createStaff provisions admin accounts.
func (s *AuthService) createStaff(ctx context.Context, role models.Role, in SignUpInput) (models.Profile, error) {
	user, err := s.createAccount(ctx, role, in)
	if err != nil {
		return nil, err
	}
	return s.profiles.CreateAdmin(ctx, user.ID)
}
