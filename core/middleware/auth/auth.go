package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

// Config holds the credential pair accepted by the API.
type Config struct {
	// Username is the HTTP Basic user name.
	Username string `mapstructure:"username" default:"admin"`
	// Password is the HTTP Basic password.
	Password string `mapstructure:"password" default:"admin"`
	// Realm is advertised in the WWW-Authenticate challenge.
	Realm string `mapstructure:"realm" default:"countries"`
}

// New returns a middleware that requires HTTP Basic credentials on mutating requests.
// GET, HEAD and OPTIONS pass through so that listing and reading stay public.
func New(cfg Config) fiber.Handler {
	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	return basicauth.New(basicauth.Config{
		Next:  isSafeMethod,
		Realm: realm,
		Authorizer: func(user, pass string) bool {
			if cfg.Username == "" {
				return false
			}
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.Username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password)) == 1
			return userOK && passOK
		},
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, "basic realm="+realm)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "Unauthorized",
				"status": fiber.StatusUnauthorized,
			})
		},
	})
}

func isSafeMethod(c *fiber.Ctx) bool {
	switch c.Method() {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	default:
		return false
	}
}
