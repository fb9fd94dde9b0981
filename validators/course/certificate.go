package courseValidator

import "github.com/gofiber/fiber/v2"

// RequestID validates the :request_id path parameter
func RequestID() fiber.Handler {
	return paramID("request_id", "requestID", "Invalid Request ID!")
}
