package controllers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/push"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/request"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/usercontext"
)

const notificationPageSize = 20

// Pusher broadcasts messages and subscribes device tokens
type Pusher interface {
	Broadcaster
	Subscribe(ctx context.Context, token string)
}

// NotificationController stores and delivers notifications under /api/notifications
type NotificationController struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	push          Pusher
}

// NewNotificationController creates the controller. pusher may be nil.
func NewNotificationController(repos *repository.Repositories, pusher Pusher) *NotificationController {
	return &NotificationController{
		users:         repos.User,
		notifications: repos.Notification,
		push:          pusher,
	}
}

type registerTokenRequest struct {
	UserID request.Value `json:"userId"`
	Token  string        `json:"token"`
}

// RegisterToken handles POST /api/notifications/register-token
func (nc *NotificationController) RegisterToken(c *fiber.Ctx) error {
	var body registerTokenRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	token := strings.TrimSpace(body.Token)
	if !body.UserID.Present() || token == "" {
		return apperror.Validation("User ID and token are required")
	}
	userID, err := body.UserID.Uint()
	if err != nil {
		return apperror.Validation("Invalid user ID")
	}

	user, err := nc.users.SetFCMToken(c.UserContext(), userID, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal("Failed to register FCM token", err)
	}

	if nc.push != nil {
		nc.push.Subscribe(c.UserContext(), token)
	}

	return response.OK(c, fiber.Map{
		"user": fiber.Map{"id": user.ID, "name": user.Name},
	}, "FCM token registered successfully")
}

type globalNotificationRequest struct {
	Title string          `json:"title" validate:"required,max=255"`
	Body  string          `json:"body" validate:"required"`
	Data  json.RawMessage `json:"data"`
}

// SendGlobal handles POST /api/notifications/global
func (nc *NotificationController) SendGlobal(c *fiber.Ctx) error {
	var body globalNotificationRequest
	if err := request.Parse(c, &body); err != nil {
		return err
	}
	data := datatypes.JSON("{}")
	if trimmed := strings.TrimSpace(string(body.Data)); trimmed != "" && trimmed != "null" {
		data = datatypes.JSON(trimmed)
	}

	notification := &models.Notification{Title: body.Title, Body: body.Body, Data: data}
	if err := nc.notifications.Create(c.UserContext(), notification); err != nil {
		return apperror.Internal("Failed to store notification", err)
	}

	if nc.push != nil {
		nc.push.Broadcast(c.UserContext(), push.Message{
			Title: body.Title,
			Body:  body.Body,
			Data:  map[string]string{"type": "admin"},
		})
	}

	return response.OK(c, fiber.Map{"notification": notification}, "Global notification sent successfully")
}

// All handles GET /api/notifications/admin/all
func (nc *NotificationController) All(c *fiber.Ctx) error {
	offset, limit := request.OffsetLimit(c, notificationPageSize)
	notifications, err := nc.notifications.ListAll(c.UserContext(), offset, limit)
	if err != nil {
		return apperror.Internal("Failed to fetch notifications", err)
	}
	return response.OK(c, fiber.Map{"notifications": notifications}, "All notifications fetched")
}

// Mine handles GET /api/notifications/user
func (nc *NotificationController) Mine(c *fiber.Ctx) error {
	offset, limit := request.OffsetLimit(c, notificationPageSize)
	notifications, err := nc.notifications.ListByUser(c.UserContext(), usercontext.GetUserID(c), offset, limit)
	if err != nil {
		return apperror.Internal("Failed to fetch notifications", err)
	}
	return response.OK(c, fiber.Map{"notifications": notifications}, "Notifications fetched")
}

// MarkRead handles PATCH /api/notifications/:notificationId/read
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "notificationId", "notification")
	if err != nil {
		return err
	}
	found, err := nc.notifications.MarkRead(c.UserContext(), id)
	if err != nil {
		return apperror.Internal("Failed to update notification", err)
	}
	if !found {
		return apperror.NotFound("Notification not found")
	}
	return response.OK(c, nil, "Notification marked as read")
}
