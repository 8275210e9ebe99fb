package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/workerpool"
)

// memDisk is an in-memory storage.Disk for tests.
type memDisk struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemDisk() *memDisk {
	return &memDisk{files: map[string][]byte{}}
}

func (d *memDisk) Put(path string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = content
	return nil
}

func (d *memDisk) PutStream(path string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(path, content)
}

func (d *memDisk) Get(path string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func (d *memDisk) Exists(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.files[path]
	return ok
}

func (d *memDisk) Delete(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
	return nil
}

func (d *memDisk) URL(path string) string { return "http://files.test/" + path }

func (d *memDisk) Size(path string) (int64, error) {
	content, err := d.Get(path)
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

func newBookService(t *testing.T, db *gorm.DB, disk *memDisk) *services.BookService {
	t.Helper()

	pool := workerpool.New(4)
	t.Cleanup(pool.Shutdown)

	notificationSvc := services.NewNotificationService(
		repositories.NewNotificationRepository(db), nil)

	return services.NewBookService(
		repositories.NewBookRepository(db),
		repositories.NewShopRepository(db),
		notificationSvc,
		disk,
		pool,
	)
}

func TestCreateBookNotifiesFollowers(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.alice.ID, f.shop.ID)
	require.NoError(t, err)
	_, err = f.svc.Follow(ctx, f.bob.ID, f.shop.ID)
	require.NoError(t, err)

	books := newBookService(t, db, newMemDisk())

	book, report, err := books.Create(ctx, f.shop.ID, services.CreateBookInput{
		Abstraction: "Dune",
		Genre:       []string{"Sci-Fi", "Classic"},
		Price:       12.50,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sci-Fi", "Classic"}, book.Genres())

	assert.Equal(t, 2, report.Followers)
	assert.Equal(t, 2, report.Notified)
	assert.Empty(t, report.Failures)

	for _, customerID := range []uint{f.alice.ID, f.bob.ID} {
		var notifications []models.Notification
		require.NoError(t, db.Where("customer_id = ?", customerID).Find(&notifications).Error)
		require.Len(t, notifications, 1)
		assert.Equal(t, "New book available: Dune", notifications[0].Content)
		assert.False(t, notifications[0].Read)
	}
}

func TestCreateBookWithoutFollowers(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)

	books := newBookService(t, db, newMemDisk())

	_, report, err := books.Create(context.Background(), f.shop.ID, services.CreateBookInput{
		Abstraction: "Dune",
		Genre:       []string{"Sci-Fi"},
		Price:       12.50,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Followers)
	assert.Equal(t, 0, report.Notified)
}

func TestCreateBookUploadsAssets(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	disk := newMemDisk()
	books := newBookService(t, db, disk)

	cover := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))
	file := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("fake-pdf"))

	book, _, err := books.Create(context.Background(), f.shop.ID, services.CreateBookInput{
		Abstraction: "Dune",
		Genre:       []string{"Sci-Fi"},
		Price:       12.50,
		ImageData:   cover,
		FileData:    file,
	})
	require.NoError(t, err)
	assert.Contains(t, book.ImageURL, "http://files.test/books/covers/")
	assert.Contains(t, book.FileURL, "http://files.test/books/files/")
	assert.Len(t, disk.files, 2)
}

func TestCreateBookBadPayload(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	books := newBookService(t, db, newMemDisk())

	_, _, err := books.Create(context.Background(), f.shop.ID, services.CreateBookInput{
		Abstraction: "Dune",
		Genre:       []string{"Sci-Fi"},
		Price:       12.50,
		ImageData:   "not-a-data-uri",
	})
	assert.ErrorIs(t, err, services.ErrBadDataURI)
}

func TestCreateBookUnknownShop(t *testing.T) {
	db := newTestDB(t)
	books := newBookService(t, db, newMemDisk())

	_, _, err := books.Create(context.Background(), 9999, services.CreateBookInput{
		Abstraction: "Dune",
		Genre:       []string{"Sci-Fi"},
		Price:       12.50,
	})
	assert.ErrorIs(t, err, services.ErrShopNotFound)
}

func TestShopLookupFailureIsNotMissingShop(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	books := newBookService(t, db, newMemDisk())
	ctx := context.Background()

	// A dead connection must surface as an internal error, not a 404.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, _, err = books.Create(ctx, f.shop.ID, services.CreateBookInput{
		Abstraction: "Dune",
		Genre:       []string{"Sci-Fi"},
		Price:       10,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrShopNotFound)

	_, err = books.BooksByShop(ctx, f.shop.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrShopNotFound)
}

func TestBooksByShop(t *testing.T) {
	db := newTestDB(t)
	f := newShopFixture(t, db)
	books := newBookService(t, db, newMemDisk())
	ctx := context.Background()

	for _, title := range []string{"Dune", "Foundation"} {
		_, _, err := books.Create(ctx, f.shop.ID, services.CreateBookInput{
			Abstraction: title,
			Genre:       []string{"Sci-Fi"},
			Price:       10,
		})
		require.NoError(t, err)
	}

	list, err := books.BooksByShop(ctx, f.shop.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = books.BooksByShop(ctx, 9999)
	assert.ErrorIs(t, err, services.ErrShopNotFound)
}
