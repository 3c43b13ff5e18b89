package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, tracker *Tracker, authMiddleware fiber.Handler) {
	r.Get("/:device_id", authMiddleware, func(c *fiber.Ctx) error {
		snap, ok := tracker.Current(c.Params("device_id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no open session for device")
		}
		return c.JSON(snap)
	})

	r.Post("/:device_id/end", authMiddleware, func(c *fiber.Ctx) error {
		snap, ok := tracker.End(c.Params("device_id"), time.Now().UTC())
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no open session for device")
		}
		return c.JSON(snap)
	})
}
