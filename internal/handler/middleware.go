package handler

import (
	"context"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = newValidator()

func HandleBasic[R Request, Res Response](handler BasicHandler[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := parseRequest(c, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": err.Error()})
		}

		res, status, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, status, err)
		}
		return c.Status(okStatus(status)).JSON(res)
	}
}

func HandleWithFiber[R Request, Res Response](handler FiberHandler[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := parseRequest(c, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": err.Error()})
		}

		res, status, err := handler.Handle(c, c.UserContext(), &req)
		if err != nil {
			return writeError(c, status, err)
		}
		return c.Status(okStatus(status)).JSON(res)
	}
}

// writeError marks 503 responses as retryable so clients can offer a retry
// button instead of a dead end.
func writeError(c *fiber.Ctx, status int, err error) error {
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}
	body := fiber.Map{"error": err.Error()}
	if status == fiber.StatusServiceUnavailable {
		body["retry"] = true
		zap.L().Warn("Upstream unavailable", zap.String("path", c.Path()), zap.Error(err))
	} else if status >= fiber.StatusInternalServerError {
		zap.L().Error("Failed to handle request", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

func okStatus(status int) int {
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func parseRequest[R any](c *fiber.Ctx, req *R) error {
	if err := c.BodyParser(req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return err
	}

	if err := c.ParamsParser(req); err != nil {
		return err
	}

	if err := c.QueryParser(req); err != nil {
		return err
	}

	if err := c.ReqHeaderParser(req); err != nil {
		return err
	}

	return nil
}

func HandleWithFiberWS[R Request](handler FiberWSHandler[R]) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		var req R
		ctx := context.Background()

		handler.HandleWS(c, ctx, &req)
	})
}
