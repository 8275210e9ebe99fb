package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/pkg/cache"
	"github.com/bookhive/bookhive/pkg/logger"
	"github.com/bookhive/bookhive/pkg/metrics"
	"github.com/bookhive/bookhive/pkg/storage"
	"github.com/bookhive/bookhive/pkg/workerpool"
)

// CreateBookInput is one new catalogue entry. ImageData and FileData are
// optional base64 data URIs.
type CreateBookInput struct {
	Abstraction string
	Genre       []string
	Price       float64
	ImageData   string
	FileData    string
}

// FanOutFailure records one follower whose notification could not be stored.
type FanOutFailure struct {
	CustomerID uint   `json:"customerId"`
	Reason     string `json:"reason"`
}

// FanOutReport summarises the notification fan-out after a book is
// published. Notified + len(Failures) == Followers.
type FanOutReport struct {
	Followers int             `json:"followers"`
	Notified  int             `json:"notified"`
	Failures  []FanOutFailure `json:"failures,omitempty"`
}

// BookService publishes books and notifies shop followers.
type BookService struct {
	books         *repositories.BookRepository
	shops         *repositories.ShopRepository
	notifications *NotificationService
	disk          storage.Disk
	pool          *workerpool.Pool
}

func NewBookService(
	books *repositories.BookRepository,
	shops *repositories.ShopRepository,
	notifications *NotificationService,
	disk storage.Disk,
	pool *workerpool.Pool,
) *BookService {
	return &BookService{
		books:         books,
		shops:         shops,
		notifications: notifications,
		disk:          disk,
		pool:          pool,
	}
}

// Create stores the book, uploads its assets and notifies every follower of
// the shop. A follower whose notification fails does not fail the publish;
// the report carries the partial outcome.
func (s *BookService) Create(ctx context.Context, shopID uint, in CreateBookInput) (*models.Book, *FanOutReport, error) {
	shop, err := s.shops.ByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrShopNotFound
		}
		return nil, nil, fmt.Errorf("book: load shop %d: %w", shopID, err)
	}

	book := models.Book{
		ShopID:      shop.ID,
		Abstraction: in.Abstraction,
		Genre:       models.JoinGenres(in.Genre),
		Price:       in.Price,
	}

	if in.ImageData != "" {
		url, err := uploadDataURI(s.disk, "books/covers", in.ImageData)
		if err != nil {
			return nil, nil, err
		}
		book.ImageURL = url
	}
	if in.FileData != "" {
		url, err := uploadDataURI(s.disk, "books/files", in.FileData)
		if err != nil {
			return nil, nil, err
		}
		book.FileURL = url
	}

	if err := s.books.Create(ctx, &book); err != nil {
		return nil, nil, fmt.Errorf("book: create: %w", err)
	}

	// The shop list embeds each shop's books.
	if err := cache.Del(shopListCacheKey); err != nil {
		logger.Warn("book: invalidate shop list cache", "error", err)
	}

	report := s.fanOut(ctx, shop, &book)
	return &book, report, nil
}

// BooksByShop returns the shop's catalogue, newest first.
func (s *BookService) BooksByShop(ctx context.Context, shopID uint) ([]models.Book, error) {
	if _, err := s.shops.ByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("book: load shop %d: %w", shopID, err)
	}
	return s.books.ByShop(ctx, shopID)
}

// fanOut inserts one notification per follower through the bounded pool and
// waits for all of them.
func (s *BookService) fanOut(ctx context.Context, shop *models.Shop, book *models.Book) *FanOutReport {
	report := &FanOutReport{Followers: len(shop.Followers)}
	if len(shop.Followers) == 0 {
		return report
	}

	content := fmt.Sprintf("New book available: %s", book.Abstraction)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, follower := range shop.Followers {
		customerID := follower.ID
		wg.Add(1)
		task := func() {
			defer wg.Done()
			_, err := s.notifications.Create(ctx, customerID, content)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.NotificationFanOut.WithLabelValues("error").Inc()
				report.Failures = append(report.Failures, FanOutFailure{
					CustomerID: customerID,
					Reason:     err.Error(),
				})
				return
			}
			metrics.NotificationFanOut.WithLabelValues("ok").Inc()
			report.Notified++
		}

		if err := s.pool.SubmitWait(task); err != nil {
			wg.Done()
			mu.Lock()
			metrics.NotificationFanOut.WithLabelValues("error").Inc()
			report.Failures = append(report.Failures, FanOutFailure{
				CustomerID: customerID,
				Reason:     err.Error(),
			})
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(report.Failures) > 0 {
		logger.WithCtx(ctx).Warn("book: fan-out partial failure",
			"shop_id", shop.ID,
			"book_id", book.ID,
			"followers", report.Followers,
			"failed", len(report.Failures),
		)
	}
	return report
}
