package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// metadataCacheKey is fixed since the response depends on nothing but the
// loaded timetable, which is immutable for the life of the process.
const metadataCacheKey = "metadata"

// MetadataHandler serves GET /metadata: the timetable's validity window,
// read through deps.Cache so repeated requests across instances skip
// re-deriving the same response.
func MetadataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Cache != nil {
			if data, hit, err := deps.Cache.Get(c.Context(), metadataCacheKey); err == nil && hit {
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Send(data)
			}
		}

		meta := deps.Timetable.Metadata()
		body := fiber.Map{
			"start_date": meta.StartDate.Format("2006-01-02"),
			"end_date":   meta.EndDate.Format("2006-01-02"),
		}

		if deps.Cache != nil {
			if data, err := json.Marshal(body); err == nil {
				_ = deps.Cache.Set(c.Context(), metadataCacheKey, data, 3600)
			}
		}

		return c.JSON(body)
	}
}
