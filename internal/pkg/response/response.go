package response

import "github.com/gofiber/fiber/v3"

// ErrorBody is the error shape every non-2xx response carries.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

const (
	MessageBadRequest          = "bad request"
	MessageNotFound            = "not found"
	MessageBadGateway          = "bad gateway"
	MessageServiceUnavailable  = "service unavailable"
	MessageGatewayTimeout      = "gateway timeout"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

func JSON(c fiber.Ctx, status int, payload interface{}) error {
	return c.Status(normalizeStatus(status)).JSON(payload)
}

func Error(c fiber.Ctx, status int, message string, details interface{}) error {
	st := normalizeStatus(status)
	msg := normalizeMessage(message, st)
	return c.Status(st).JSON(ErrorBody{Error: msg, Details: details})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func normalizeMessage(message string, status int) string {
	if message != "" {
		return message
	}
	return defaultMessageForStatus(status)
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusBadGateway:
		return MessageBadGateway
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	case fiber.StatusGatewayTimeout:
		return MessageGatewayTimeout
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
