// Package routes declares the HTTP surface of BookHive.
package routes

import (
	"github.com/bookhive/bookhive/app/controllers"
	"github.com/bookhive/bookhive/pkg/metrics"
	"github.com/bookhive/bookhive/pkg/middleware"
	"github.com/bookhive/bookhive/pkg/router"
)

// API bundles the controllers the route table needs.
type API struct {
	Auth          *controllers.AuthController
	Shops         *controllers.ShopController
	Books         *controllers.BookController
	Notifications *controllers.NotificationController
}

// Register mounts every route on the router. Everything except sign-up,
// login and the public shop directory sits behind the session middleware.
func Register(r *router.Router, api *API) {
	r.HandleFunc("/metrics", metrics.Handler())

	authRoutes := r.Group("/api/auth")
	authRoutes.Post("/signup", "auth.signup", api.Auth.SignUp)
	authRoutes.Post("/login", "auth.login", api.Auth.Login)
	authRoutes.Post("/logout", "auth.logout", api.Auth.Logout)
	authRoutes.Get("/check", "auth.check", api.Auth.Check, middleware.Auth)
	authRoutes.Put("/update-profile/{id}", "auth.update-profile", api.Auth.UpdateProfile, middleware.Auth)
	authRoutes.Post("/upload-image", "auth.upload-image", api.Auth.UploadImage, middleware.Auth)

	shops := r.Group("/api/shops")
	shops.Get("/", "shops.index", api.Shops.Index)
	shops.Get("/{id}", "shops.show", api.Shops.Show)
	shops.Post("/{id}/follow", "shops.follow", api.Shops.Follow, middleware.Auth)
	shops.Post("/{id}/unfollow", "shops.unfollow", api.Shops.Unfollow, middleware.Auth)
	shops.Get("/{id}/follow-status/{customerId}", "shops.follow-status", api.Shops.FollowStatus, middleware.Auth)
	shops.Get("/customer/{customerId}/followed", "shops.followed", api.Shops.Followed, middleware.Auth)

	// Browsing a shop's catalogue is public, like the shop directory;
	// only publishing needs a session.
	books := r.Group("/api/books")
	books.Post("/{shopId}", "books.create", api.Books.Create, middleware.Auth)
	books.Get("/{shopId}", "books.index", api.Books.Index)

	notifications := r.Group("/api/notifications")
	notifications.Post("/", "notifications.create", api.Notifications.Create, middleware.Auth)
	notifications.Get("/ws/{customerId}", "notifications.stream", api.Notifications.Stream, middleware.Auth)
	notifications.Get("/{id}", "notifications.index", api.Notifications.Index, middleware.Auth)
	notifications.Put("/{id}", "notifications.mark-read", api.Notifications.MarkRead, middleware.Auth)
	notifications.Put("/{id}/read-all", "notifications.mark-all-read", api.Notifications.MarkAllRead, middleware.Auth)
}
