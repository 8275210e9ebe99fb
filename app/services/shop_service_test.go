package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/app/services"
)

type shopFixture struct {
	svc   *services.ShopService
	shop  *models.Shop
	alice *models.Customer
	bob   *models.Customer
}

// newShopFixture signs up one seller and two customers through the real
// auth flow.
func newShopFixture(t *testing.T, db *gorm.DB) shopFixture {
	t.Helper()
	ctx := context.Background()
	authSvc := newAuthService(db)

	seller, err := authSvc.SignUp(ctx, "Seller", services.SignUpInput{
		Email: "sam@example.com", Password: "secret123", Name: "Sam Pages",
	})
	require.NoError(t, err)

	alice, err := authSvc.SignUp(ctx, "Customer", services.SignUpInput{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.NoError(t, err)

	bob, err := authSvc.SignUp(ctx, "Customer", services.SignUpInput{
		Email: "bob@example.com", Password: "secret123", Name: "Bob",
	})
	require.NoError(t, err)

	shop := seller.(*models.Seller).Shop
	return shopFixture{
		svc: services.NewShopService(
			repositories.NewShopRepository(db),
			repositories.NewProfileRepository(db),
		),
		shop:  &shop,
		alice: alice.(*models.Customer),
		bob:   bob.(*models.Customer),
	}
}

func TestFollowAndUnfollow(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	ctx := context.Background()

	customer, err := f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)
	require.Len(t, customer.Shops, 1)
	assert.Equal(t, f.shop.ID, customer.Shops[0].ID)

	following, err := f.svc.IsFollowing(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)
	assert.True(t, following)

	customer, err = f.svc.Unfollow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)
	assert.Empty(t, customer.Shops)

	following, err = f.svc.IsFollowing(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowTwice(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)

	_, err = f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyFollowing)
}

func TestUnfollowWithoutFollowing(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)

	_, err := f.svc.Unfollow(context.Background(), f.bob.ID, f.shop.ID)
	assert.ErrorIs(t, err, services.ErrNotFollowing)
}

func TestFollowUnknownCustomer(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)

	_, err := f.svc.Follow(context.Background(), 9999, f.shop.ID)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)
}

func TestFollowUnknownShop(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)

	_, err := f.svc.Follow(context.Background(), f.alice.ID, 9999)
	assert.ErrorIs(t, err, services.ErrShopNotFound)
}

func TestFollowersAreIndependent(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)

	// Bob never followed; Alice's follow must not leak onto him.
	following, err := f.svc.IsFollowing(ctx, f.bob.ID, f.shop.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowedBy(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	ctx := context.Background()

	shops, err := f.svc.FollowedBy(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, shops)

	_, err = f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)

	shops, err = f.svc.FollowedBy(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, f.shop.ID, shops[0].ID)

	_, err = f.svc.FollowedBy(ctx, 9999)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)
}

func TestShopListIncludesFollowers(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)
	_, err = f.svc.Follow(ctx, f.bob.ID, f.shop.ID)
	require.NoError(t, err)

	shop, err := f.svc.ByID(ctx, f.shop.ID)
	require.NoError(t, err)
	assert.Len(t, shop.Followers, 2)
}
