// Package server boots the application: configuration, database, cache,
// storage, the WebSocket hub, and the HTTP kernel with its middleware stack.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/controllers"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/app/routes"
	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/config"
	"github.com/bookhive/bookhive/pkg/cache"
	"github.com/bookhive/bookhive/pkg/database"
	"github.com/bookhive/bookhive/pkg/logger"
	"github.com/bookhive/bookhive/pkg/metrics"
	"github.com/bookhive/bookhive/pkg/middleware"
	"github.com/bookhive/bookhive/pkg/migration"
	"github.com/bookhive/bookhive/pkg/reqid"
	"github.com/bookhive/bookhive/pkg/router"
	"github.com/bookhive/bookhive/pkg/storage"
	"github.com/bookhive/bookhive/pkg/workerpool"
	"github.com/bookhive/bookhive/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// BuildRouter assembles repositories, services, controllers and the route
// table on top of db. Exposed so route:list can build the table without a
// live server.
func BuildRouter(db *gorm.DB, hub *ws.Hub, pool *workerpool.Pool) *router.Router {
	users := repositories.NewUserRepository(db)
	profiles := repositories.NewProfileRepository(db)
	shops := repositories.NewShopRepository(db)
	books := repositories.NewBookRepository(db)
	notifications := repositories.NewNotificationRepository(db)

	notificationSvc := services.NewNotificationService(notifications, hub)
	authSvc := services.NewAuthService(users, profiles)
	userSvc := services.NewUserService(users, profiles, storage.Default())
	shopSvc := services.NewShopService(shops, profiles)
	bookSvc := services.NewBookService(books, shops, notificationSvc, storage.Default(), pool)

	api := &routes.API{
		Auth:          controllers.NewAuthController(authSvc, userSvc),
		Shops:         controllers.NewShopController(shopSvc),
		Books:         controllers.NewBookController(bookSvc),
		Notifications: controllers.NewNotificationController(notificationSvc, hub),
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigin())),
		middleware.RateLimit(300, time.Minute),
	)
	routes.Register(r, api)

	// Uploaded files on the local disk are served straight from the tree.
	if config.StorageDisk() == "local" {
		fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(config.StorageLocalRoot())))
		r.HandleFunc("/storage/*", fs.ServeHTTP)
	}

	return r
}

// Run boots every subsystem and serves until interrupted.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			defer closeLogs()
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// Cache is optional; everything falls through to the database.
		logger.Warn("cache unavailable", "error", err)
	}

	storage.Connect()

	hub := ws.NewHub()
	go hub.Run()

	pool := workerpool.New(config.FanOutWorkers())
	defer pool.Shutdown()

	r := BuildRouter(database.DB, hub, pool)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
