package controllers

import (
	"net/http"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/auth"
	"github.com/bookhive/bookhive/pkg/bind"
	"github.com/bookhive/bookhive/pkg/logger"
	"github.com/bookhive/bookhive/pkg/middleware"
	"github.com/bookhive/bookhive/pkg/response"
)

// AuthController handles sign-up, login and session management.
type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController(authSvc *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{auth: authSvc, users: users}
}

type signUpRequest struct {
	Role        string `json:"role" validate:"required,in=Admin,Seller,Customer"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" validate:"nullable"`
	ImageURL    string `json:"imageUrl" validate:"nullable,url"`
	ShopName    string `json:"shopName" validate:"nullable"`
}

// SignUp registers an account and opens a session for it.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profile, err := c.auth.SignUp(r.Context(), req.Role, services.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		ImageURL:    req.ImageURL,
		ShopName:    req.ShopName,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	c.openSession(w, r, http.StatusCreated, profile)
}

type loginRequest struct {
	Role     string `json:"role" validate:"required,in=Admin,Seller,Customer"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an account and opens a session for it.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profile, err := c.auth.Login(r.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	c.openSession(w, r, http.StatusOK, profile)
}

// openSession issues the token, sets the cookie and writes {user, token}.
func (c *AuthController) openSession(w http.ResponseWriter, r *http.Request, status int, profile models.Profile) {
	token, err := auth.GenerateToken(profile.AccountID(), string(profile.ProfileRole()))
	if err != nil {
		logger.WithCtx(r.Context()).Error("auth: generate token", "error", err)
		response.Internal(w)
		return
	}
	auth.SetTokenCookie(w, token)

	response.JSON(w, status, map[string]interface{}{
		"user":  profile,
		"token": token,
	})
}

// Logout clears the session cookie.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w)
	response.Message(w, http.StatusOK, "Logged out successfully")
}

// Check returns the account behind the current session.
func (c *AuthController) Check(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "")
		return
	}

	user, err := c.users.Get(r.Context(), claims.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "user", user)
}

type updateProfileRequest struct {
	Name        string `json:"name" validate:"nullable"`
	Email       string `json:"email" validate:"nullable,email"`
	PhoneNumber string `json:"phoneNumber" validate:"nullable"`
	ImageURL    string `json:"imageUrl" validate:"nullable,url"`
}

// UpdateProfile edits the account in the id route parameter. Non-admins may
// only edit their own account.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "user id")
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil || (claims.UserID != id && claims.Role != string(models.RoleAdmin)) {
		response.Error(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req updateProfileRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profile, err := c.users.UpdateProfile(r.Context(), id, services.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "user", profile)
}

type uploadImageRequest struct {
	Image string `json:"image" validate:"required"`
}

// UploadImage stores a base64 profile image and returns its URL.
func (c *AuthController) UploadImage(w http.ResponseWriter, r *http.Request) {
	var req uploadImageRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	url, err := c.users.UploadImage(r.Context(), req.Image)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}
