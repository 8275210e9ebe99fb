package controllers

import (
	"net/http"

	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/bind"
	"github.com/bookhive/bookhive/pkg/response"
	"github.com/bookhive/bookhive/pkg/ws"
)

// NotificationController serves the customer notification inbox.
type NotificationController struct {
	notifications *services.NotificationService
	hub           *ws.Hub
}

func NewNotificationController(notifications *services.NotificationService, hub *ws.Hub) *NotificationController {
	return &NotificationController{notifications: notifications, hub: hub}
}

type createNotificationRequest struct {
	CustomerID uint   `json:"customerId" validate:"required"`
	Content    string `json:"content" validate:"required,max=512"`
}

// Create inserts a notification directly, outside the publish fan-out.
func (c *NotificationController) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	notification, err := c.notifications.Create(r.Context(), req.CustomerID, req.Content)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.CreatedResource(w, "notification", notification)
}

// Index lists a customer's notifications, newest first.
func (c *NotificationController) Index(w http.ResponseWriter, r *http.Request) {
	customerID, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "customer id")
		return
	}

	notifications, err := c.notifications.ByCustomer(r.Context(), customerID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "notifications", notifications)
}

// MarkRead flags one notification as read.
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "notification id")
		return
	}

	if err := c.notifications.MarkRead(r.Context(), id); err != nil {
		serviceError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Notification marked as read")
}

// MarkAllRead flags every unread notification of the customer as read.
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	customerID, ok := uintParam(r, "id")
	if !ok {
		badParam(w, "customer id")
		return
	}

	if err := c.notifications.MarkAllRead(r.Context(), customerID); err != nil {
		serviceError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "All notifications marked as read")
}

// Stream upgrades to WebSocket and pushes the customer's notifications live.
func (c *NotificationController) Stream(w http.ResponseWriter, r *http.Request) {
	customerID, ok := uintParam(r, "customerId")
	if !ok {
		badParam(w, "customer id")
		return
	}
	ws.Serve(c.hub, customerID, w, r)
}
