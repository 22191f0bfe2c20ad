package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request id.
const HeaderName = "X-Ray-ID"

// LocalsKey is the fiber locals key logger.WithRayID reads.
const LocalsKey = "ray_id"

// New returns a middleware that assigns every request a RayID. An incoming
// X-Ray-ID header is reused so ids survive a proxy hop.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
