package services_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/app/services"
)

func newUserService(db *gorm.DB, disk *memDisk) *services.UserService {
	return services.NewUserService(
		repositories.NewUserRepository(db),
		repositories.NewProfileRepository(db),
		disk,
	)
}

func signUpCustomer(t *testing.T, db *gorm.DB, in services.SignUpInput) *models.Customer {
	t.Helper()
	profile, err := newAuthService(db).SignUp(context.Background(), "Customer", in)
	require.NoError(t, err)
	return profile.(*models.Customer)
}

func TestGetUser(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newMemDisk())
	ctx := context.Background()

	customer := signUpCustomer(t, db, customerInput("alice@example.com"))

	user, err := svc.Get(ctx, customer.AccountID())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newMemDisk())
	ctx := context.Background()

	in := customerInput("alice@example.com")
	in.PhoneNumber = "555-0101"
	customer := signUpCustomer(t, db, in)

	// Only the name is sent; everything else stays as it was.
	profile, err := svc.UpdateProfile(ctx, customer.AccountID(), services.UpdateProfileInput{
		Name: "Alice Cooper",
	})
	require.NoError(t, err)

	updated := profile.(*models.Customer)
	assert.Equal(t, "Alice Cooper", updated.User.Name)
	assert.Equal(t, "alice@example.com", updated.User.Email)
	assert.Equal(t, "555-0101", updated.User.PhoneNumber)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newMemDisk())

	_, err := svc.UpdateProfile(context.Background(), 9999, services.UpdateProfileInput{
		Name: "Ghost",
	})
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestUpdateProfileEmailChange(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newMemDisk())
	ctx := context.Background()

	customer := signUpCustomer(t, db, customerInput("alice@example.com"))
	signUpCustomer(t, db, customerInput("bob@example.com"))

	// Taking another account's email is a conflict.
	_, err := svc.UpdateProfile(ctx, customer.AccountID(), services.UpdateProfileInput{
		Email: "bob@example.com",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	// Re-submitting the current email is not.
	_, err = svc.UpdateProfile(ctx, customer.AccountID(), services.UpdateProfileInput{
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	// A fresh email goes through.
	profile, err := svc.UpdateProfile(ctx, customer.AccountID(), services.UpdateProfileInput{
		Email: "alice.reader@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.reader@example.com", profile.(*models.Customer).User.Email)
}

func TestUpdateProfileReplacesImage(t *testing.T) {
	db := newTestDB(t)
	disk := newMemDisk()
	svc := newUserService(db, disk)
	ctx := context.Background()

	require.NoError(t, disk.Put("users/old.png", []byte("old")))

	in := customerInput("alice@example.com")
	in.ImageURL = disk.URL("users/old.png")
	customer := signUpCustomer(t, db, in)

	profile, err := svc.UpdateProfile(ctx, customer.AccountID(), services.UpdateProfileInput{
		ImageURL: disk.URL("users/new.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, disk.URL("users/new.png"), profile.(*models.Customer).User.ImageURL)

	// The replaced upload is cleaned off the disk.
	assert.False(t, disk.Exists("users/old.png"))
}

func TestUpdateProfileLeavesForeignImageAlone(t *testing.T) {
	db := newTestDB(t)
	disk := newMemDisk()
	svc := newUserService(db, disk)
	ctx := context.Background()

	require.NoError(t, disk.Put("users/unrelated.png", []byte("keep")))

	in := customerInput("alice@example.com")
	in.ImageURL = "https://avatars.example.com/alice.png"
	customer := signUpCustomer(t, db, in)

	_, err := svc.UpdateProfile(ctx, customer.AccountID(), services.UpdateProfileInput{
		ImageURL: disk.URL("users/mine.png"),
	})
	require.NoError(t, err)

	// Images hosted elsewhere are never deleted from our disk.
	assert.True(t, disk.Exists("users/unrelated.png"))
}

func TestUploadImage(t *testing.T) {
	db := newTestDB(t)
	disk := newMemDisk()
	svc := newUserService(db, disk)

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))
	url, err := svc.UploadImage(context.Background(), payload)
	require.NoError(t, err)
	assert.Contains(t, url, "http://files.test/users/")
	assert.Len(t, disk.files, 1)
}

func TestUploadImageBadPayload(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newMemDisk())

	_, err := svc.UploadImage(context.Background(), "definitely-not-a-data-uri")
	assert.ErrorIs(t, err, services.ErrBadDataURI)
}
