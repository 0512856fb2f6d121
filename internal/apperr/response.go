package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

const (
	MsgServerError  = "Lỗi server"
	MsgInvalidData  = "Dữ liệu không hợp lệ"
	MsgInvalidID    = "ID không hợp lệ"
	MsgRouteMissing = "Không tìm thấy đường dẫn"
)

// Handler renders every error returned from a route as the JSON envelope
// {success:false, message, errors?}. Causes of internal errors are exposed
// only when showCause is set.
func Handler(log *zap.Logger, showCause bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := fiber.Map{"success": false}

		var appErr *Error
		var fiberErr *fiber.Error
		status := fiber.StatusInternalServerError

		switch {
		case errors.As(err, &appErr):
			status = appErr.Kind.Status()
			body["message"] = appErr.Message
			if len(appErr.Fields) > 0 {
				body["errors"] = appErr.Fields
			}
			if appErr.Kind == KindInternal {
				log.Error("request failed", zap.String("path", utils.CopyString(c.Path())), zap.Error(err))
				if showCause && appErr.Err != nil {
					body["error"] = appErr.Err.Error()
				}
			}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			body["message"] = fiberErr.Message
			if status == fiber.StatusNotFound {
				body["message"] = MsgRouteMissing
			}
		default:
			log.Error("unhandled error", zap.String("path", utils.CopyString(c.Path())), zap.Error(err))
			body["message"] = MsgServerError
			if showCause {
				body["error"] = err.Error()
			}
		}

		return c.Status(status).JSON(body)
	}
}
