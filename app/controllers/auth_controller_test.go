package controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bookhive/bookhive/app/controllers"
	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/app/routes"
	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/auth"
	"github.com/bookhive/bookhive/pkg/router"
	"github.com/bookhive/bookhive/pkg/workerpool"
	"github.com/bookhive/bookhive/pkg/ws"
)

// fakeDisk is an in-memory storage.Disk for handler tests.
type fakeDisk struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (d *fakeDisk) Put(path string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = content
	return nil
}

func (d *fakeDisk) PutStream(path string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(path, content)
}

func (d *fakeDisk) Get(path string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func (d *fakeDisk) Exists(path string) bool {
	_, err := d.Get(path)
	return err == nil
}

func (d *fakeDisk) Delete(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
	return nil
}

func (d *fakeDisk) URL(path string) string { return "http://files.test/" + path }

func (d *fakeDisk) Size(path string) (int64, error) {
	content, err := d.Get(path)
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

// newTestServer boots the full route table over an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Admin{}, &models.Shop{}, &models.Seller{},
		&models.Customer{}, &models.Book{}, &models.Notification{},
	))

	users := repositories.NewUserRepository(db)
	profiles := repositories.NewProfileRepository(db)
	shops := repositories.NewShopRepository(db)
	books := repositories.NewBookRepository(db)
	notifications := repositories.NewNotificationRepository(db)

	disk := &fakeDisk{files: map[string][]byte{}}
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	notificationSvc := services.NewNotificationService(notifications, nil)
	api := &routes.API{
		Auth: controllers.NewAuthController(
			services.NewAuthService(users, profiles),
			services.NewUserService(users, profiles, disk),
		),
		Shops: controllers.NewShopController(
			services.NewShopService(shops, profiles),
		),
		Books: controllers.NewBookController(
			services.NewBookService(books, shops, notificationSvc, disk, pool),
		),
		Notifications: controllers.NewNotificationController(notificationSvc, ws.NewHub()),
	}

	r := router.New()
	routes.Register(r, api)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, token, body)
}

func putJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPut, url, token, body)
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type sessionResponse struct {
	User struct {
		ID     uint `json:"ID"`
		UserID uint `json:"userId"`
		User   struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	} `json:"user"`
	Token string `json:"token"`
}

func signUp(t *testing.T, srv *httptest.Server, role, email string) sessionResponse {
	t.Helper()

	resp := postJSON(t, srv.URL+"/api/auth/signup", "", map[string]string{
		"role":     role,
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session sessionResponse
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.Token)
	return session
}

func TestSignUpEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/signup", "", map[string]string{
		"role":     "Customer",
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie missing")
	assert.True(t, cookie.HttpOnly)

	var session sessionResponse
	decodeBody(t, resp, &session)
	assert.Equal(t, "alice@example.com", session.User.User.Email)
	assert.Equal(t, "Customer", session.User.User.Role)
	assert.NotEmpty(t, session.Token)
}

func TestSignUpValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/signup", "", map[string]string{
		"role":     "Customer",
		"name":     "Alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Errors, "email")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "Customer", "alice@example.com")

	resp := postJSON(t, srv.URL+"/api/auth/signup", "", map[string]string{
		"role":     "Customer",
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "Customer", "alice@example.com")

	resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"role":     "Customer",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session sessionResponse
	decodeBody(t, resp, &session)
	assert.NotEmpty(t, session.Token)
}

func TestLoginWrongPasswordEndpoint(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "Customer", "alice@example.com")

	resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"role":     "Customer",
		"email":    "alice@example.com",
		"password": "wrong",
	})
	defer resp.Body.Close()
	// Authentication failures are 401, never 500.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRoleMismatchEndpoint(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "Customer", "alice@example.com")

	resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"role":     "Seller",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/auth/check")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckWithToken(t *testing.T) {
	srv := newTestServer(t)
	session := signUp(t, srv, "Customer", "alice@example.com")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/check", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "alice@example.com", body.User.Email)
}

// sellerShopID logs the seller back in and reads the shop provisioned at
// sign-up off the projection.
func sellerShopID(t *testing.T, srv *httptest.Server, email string) uint {
	t.Helper()

	var body struct {
		User struct {
			Shop struct {
				ID uint `json:"ID"`
			} `json:"shop"`
		} `json:"user"`
	}
	resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"role":     "Seller",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	require.NotZero(t, body.User.Shop.ID)
	return body.User.Shop.ID
}

func TestFollowFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "Seller", "sam@example.com")
	customer := signUp(t, srv, "Customer", "alice@example.com")

	shopID := sellerShopID(t, srv, "sam@example.com")
	followURL := fmt.Sprintf("%s/api/shops/%d/follow", srv.URL, shopID)

	resp := postJSON(t, followURL, customer.Token, map[string]uint{
		"customerId": customer.User.ID,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Following twice is a client error.
	resp = postJSON(t, followURL, customer.Token, map[string]uint{
		"customerId": customer.User.ID,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var msg struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &msg)
	assert.Equal(t, "Already following this shop", msg.Message)
}

func TestBooksListIsPublic(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "Seller", "sam@example.com")
	shopID := sellerShopID(t, srv, "sam@example.com")

	// Browsing the catalogue needs no session, like the shop directory.
	resp, err := http.Get(fmt.Sprintf("%s/api/books/%d", srv.URL, shopID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Books []json.RawMessage `json:"books"`
	}
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Books)

	// Publishing still does.
	resp = postJSON(t, fmt.Sprintf("%s/api/books/%d", srv.URL, shopID), "", map[string]interface{}{
		"abstraction": "Dune",
		"genre":       []string{"Sci-Fi"},
		"price":       10,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := signUp(t, srv, "Customer", "alice@example.com")

	url := fmt.Sprintf("%s/api/auth/update-profile/%d", srv.URL, alice.User.UserID)
	resp := putJSON(t, url, alice.Token, map[string]string{"name": "Alice Cooper"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User struct {
			User struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"user"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Alice Cooper", body.User.User.Name)
	assert.Equal(t, "alice@example.com", body.User.User.Email)
}

func TestUpdateProfileForbiddenForOtherAccount(t *testing.T) {
	srv := newTestServer(t)
	alice := signUp(t, srv, "Customer", "alice@example.com")
	bob := signUp(t, srv, "Customer", "bob@example.com")

	url := fmt.Sprintf("%s/api/auth/update-profile/%d", srv.URL, bob.User.UserID)
	resp := putJSON(t, url, alice.Token, map[string]string{"name": "Hijacked"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateProfileAdminMayEditOthers(t *testing.T) {
	srv := newTestServer(t)
	admin := signUp(t, srv, "Admin", "root@example.com")
	alice := signUp(t, srv, "Customer", "alice@example.com")

	url := fmt.Sprintf("%s/api/auth/update-profile/%d", srv.URL, alice.User.UserID)
	resp := putJSON(t, url, admin.Token, map[string]string{"name": "Renamed"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
