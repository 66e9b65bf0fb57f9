package serverutils

import (
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// SessionResolver is satisfied by service.ISessionService.
type SessionResolver interface {
	Resolve(token string) (*entity.SessionContext, string, error)
}

type SessionCookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware attaches the visitor's session to every request. The
// token is read from the cookie, or from the X-Session-Token header for
// non-browser clients, and is re-issued on both on every response.
func SessionMiddleware(resolver SessionResolver, cookie SessionCookieConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(cookie.Name)
		if token == "" {
			token = ctx.Get(constant.SessionHeaderName)
		}

		session, signed, err := resolver.Resolve(token)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "session could not be started"))
		}

		ctx.Cookie(&fiber.Cookie{
			Name:     cookie.Name,
			Value:    signed,
			Path:     "/",
			Expires:  time.Now().Add(cookie.TTL),
			HTTPOnly: true,
			Secure:   cookie.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Set(constant.SessionHeaderName, signed)
		ctx.Locals(constant.SessionLocalKey, session)

		return ctx.Next()
	}
}

// SessionFrom returns the session SessionMiddleware attached, or nil.
func SessionFrom(ctx *fiber.Ctx) *entity.SessionContext {
	session, _ := ctx.Locals(constant.SessionLocalKey).(*entity.SessionContext)
	return session
}
