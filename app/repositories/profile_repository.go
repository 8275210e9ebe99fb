package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
)

// ProfileRepository manages the role projections (Admin, Seller, Customer)
// that hang off a user account.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateAdmin(ctx context.Context, userID uint) (*models.Admin, error) {
	admin := models.Admin{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, err
	}
	return r.AdminByUserID(ctx, userID)
}

// CreateSeller provisions the seller together with their shop in one insert;
// GORM cascades the Shop association.
func (r *ProfileRepository) CreateSeller(ctx context.Context, userID uint, shopName string) (*models.Seller, error) {
	seller := models.Seller{
		UserID: userID,
		Shop:   models.Shop{Name: shopName},
	}
	if err := r.db.WithContext(ctx).Create(&seller).Error; err != nil {
		return nil, err
	}
	return r.SellerByUserID(ctx, userID)
}

func (r *ProfileRepository) CreateCustomer(ctx context.Context, userID uint) (*models.Customer, error) {
	customer := models.Customer{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return r.CustomerByUserID(ctx, userID)
}

func (r *ProfileRepository) AdminByUserID(ctx context.Context, userID uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *ProfileRepository) SellerByUserID(ctx context.Context, userID uint) (*models.Seller, error) {
	var seller models.Seller
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Shop").
		Preload("Shop.Books").
		Where("user_id = ?", userID).
		First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *ProfileRepository) CustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Shops").
		Where("user_id = ?", userID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *ProfileRepository) CustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ByUser loads the projection matching the account's role.
func (r *ProfileRepository) ByUser(ctx context.Context, user *models.User) (models.Profile, error) {
	switch user.Role {
	case models.RoleAdmin:
		return r.AdminByUserID(ctx, user.ID)
	case models.RoleSeller:
		return r.SellerByUserID(ctx, user.ID)
	case models.RoleCustomer:
		return r.CustomerByUserID(ctx, user.ID)
	default:
		return nil, fmt.Errorf("profile: %w: %q", models.ErrInvalidRole, user.Role)
	}
}
