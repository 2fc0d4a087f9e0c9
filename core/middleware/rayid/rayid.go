// Package rayid assigns every request a unique ray ID for log correlation.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the ray ID.
const HeaderName = "X-Ray-ID"

// LocalsKey is the fiber locals key under which the ray ID is stored.
const LocalsKey = "ray_id"

// New returns a middleware that attaches a ray ID to the request. An ID
// already supplied by an upstream proxy is kept.
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
