// Package response writes the JSON envelope every API endpoint answers with.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

// Envelope is the success body: {statusCode, data, message, success}.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the failure body: {statusCode, message, success:false}.
type ErrorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func JSON(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < fiber.StatusBadRequest,
	})
}

func OK(c *fiber.Ctx, data interface{}, message string) error {
	return JSON(c, fiber.StatusOK, data, message)
}

func Created(c *fiber.Ctx, data interface{}, message string) error {
	return JSON(c, fiber.StatusCreated, data, message)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so handlers can just
// return service errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := apperror.StatusCode(appErr)
		if status >= fiber.StatusInternalServerError {
			log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		}
		return Error(c, status, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Error(c, fiberErr.Code, fiberErr.Message)
	}

	log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
	return Error(c, fiber.StatusInternalServerError, "Internal Server Error")
}
