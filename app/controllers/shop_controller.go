package controllers

import (
	"net/http"

	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/bind"
	"github.com/bookhive/bookhive/pkg/response"
)

// ShopController serves the shop directory and the follow relation.
type ShopController struct {
	shops *services.ShopService
}

func NewShopController(shops *services.ShopService) *ShopController {
	return &ShopController{shops: shops}
}

// Index lists every shop.
func (c *ShopController) Index(w http.ResponseWriter, r *http.Request) {
	shops, err := c.shops.All(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "shops", shops)
}

// Show returns one shop with its books and followers.
func (c *ShopController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "shop id")
		return
	}

	shop, err := c.shops.ByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "shop", shop)
}

type followRequest struct {
	CustomerID uint `json:"customerId" validate:"required"`
}

// Follow subscribes a customer to the shop.
func (c *ShopController) Follow(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "shop id")
		return
	}

	var req followRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer, err := c.shops.Follow(r.Context(), req.CustomerID, shopID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "customer", customer)
}

// Unfollow removes a customer's subscription to the shop.
func (c *ShopController) Unfollow(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "shop id")
		return
	}

	var req followRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer, err := c.shops.Unfollow(r.Context(), req.CustomerID, shopID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "customer", customer)
}

// FollowStatus reports whether the customer follows the shop.
func (c *ShopController) FollowStatus(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "shop id")
		return
	}
	customerID, ok := uintParam(r, "customerId")
	if !ok {
		badParam(w, "customer id")
		return
	}

	following, err := c.shops.IsFollowing(r.Context(), customerID, shopID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"isFollowing": following})
}

// Followed lists the shops a customer follows.
func (c *ShopController) Followed(w http.ResponseWriter, r *http.Request) {
	customerID, ok := uintParam(r, "customerId")
	if !ok {
		badParam(w, "customer id")
		return
	}

	shops, err := c.shops.FollowedBy(r.Context(), customerID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "shops", shops)
}
