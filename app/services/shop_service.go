package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/pkg/cache"
	"github.com/bookhive/bookhive/pkg/logger"
)

var (
	// ErrShopNotFound is returned when the shop does not exist.
	ErrShopNotFound = errors.New("shop not found")

	// ErrCustomerNotFound is returned when the customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAlreadyFollowing is returned by Follow when the customer already
	// follows the shop.
	ErrAlreadyFollowing = errors.New("already following this shop")

	// ErrNotFollowing is returned by Unfollow when no follow exists.
	ErrNotFollowing = errors.New("not following this shop")
)

const (
	shopListCacheKey = "shops:all"
	shopListCacheTTL = 30 * time.Second
)

// ShopService lists shops and manages the follow relation.
type ShopService struct {
	shops    *repositories.ShopRepository
	profiles *repositories.ProfileRepository
}

func NewShopService(shops *repositories.ShopRepository, profiles *repositories.ProfileRepository) *ShopService {
	return &ShopService{shops: shops, profiles: profiles}
}

// All returns every shop, served from cache when warm.
func (s *ShopService) All(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	if cache.Get(shopListCacheKey, &shops) {
		return shops, nil
	}

	shops, err := s.shops.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("shop: list: %w", err)
	}

	if err := cache.Set(shopListCacheKey, shops, shopListCacheTTL); err != nil {
		logger.Warn("shop: cache list", "error", err)
	}
	return shops, nil
}

func (s *ShopService) ByID(ctx context.Context, id uint) (*models.Shop, error) {
	shop, err := s.shops.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

// Follow subscribes the customer to the shop and returns the refreshed
// customer projection.
func (s *ShopService) Follow(ctx context.Context, customerID, shopID uint) (*models.Customer, error) {
	customer, shop, err := s.pair(ctx, customerID, shopID)
	if err != nil {
		return nil, err
	}

	following, err := s.shops.IsFollowing(ctx, customerID, shopID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, ErrAlreadyFollowing
	}

	if err := s.shops.AddFollower(ctx, customer, shop); err != nil {
		return nil, fmt.Errorf("shop: follow: %w", err)
	}
	s.invalidateList()

	return s.profiles.CustomerByUserID(ctx, customer.UserID)
}

// Unfollow removes the subscription and returns the refreshed customer
// projection.
func (s *ShopService) Unfollow(ctx context.Context, customerID, shopID uint) (*models.Customer, error) {
	customer, shop, err := s.pair(ctx, customerID, shopID)
	if err != nil {
		return nil, err
	}

	following, err := s.shops.IsFollowing(ctx, customerID, shopID)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, ErrNotFollowing
	}

	if err := s.shops.RemoveFollower(ctx, customer, shop); err != nil {
		return nil, fmt.Errorf("shop: unfollow: %w", err)
	}
	s.invalidateList()

	return s.profiles.CustomerByUserID(ctx, customer.UserID)
}

// IsFollowing reports whether the customer follows the shop.
func (s *ShopService) IsFollowing(ctx context.Context, customerID, shopID uint) (bool, error) {
	if _, _, err := s.pair(ctx, customerID, shopID); err != nil {
		return false, err
	}
	return s.shops.IsFollowing(ctx, customerID, shopID)
}

// FollowedBy returns the shops the customer follows.
func (s *ShopService) FollowedBy(ctx context.Context, customerID uint) ([]models.Shop, error) {
	if _, err := s.profiles.CustomerByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.shops.FollowedBy(ctx, customerID)
}

// pair loads both sides of a follow operation.
func (s *ShopService) pair(ctx context.Context, customerID, shopID uint) (*models.Customer, *models.Shop, error) {
	customer, err := s.profiles.CustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCustomerNotFound
		}
		return nil, nil, err
	}

	shop, err := s.ByID(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}
	return customer, shop, nil
}

func (s *ShopService) invalidateList() {
	if err := cache.Del(shopListCacheKey); err != nil {
		logger.Warn("shop: invalidate list cache", "error", err)
	}
}
