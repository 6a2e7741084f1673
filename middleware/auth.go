package middleware

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/praxis-learning/praxis_api/shared"
)

// tokenVerifier is the slice of the JWT service this package needs. The
// services package registers the http server which mounts these handlers,
// so depending on it directly would be circular.
type tokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(jwtToken string) (string, error)
}

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc tokenVerifier
}

const AUTH_MIDDLEWARE_SVC = "auth"

const jwtServiceID = "jwt_svc"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(jwtServiceID).(tokenVerifier)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authHeader := c.Get("Authorization"); authHeader != "" {
			if token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader); err == nil {
				if userID, err := svc.jwtSvc.VerifyJWTToken(token); err == nil && userID != "" {
					c.Locals(shared.UserID, userID)
				}
			}
		}
		return c.Next()
	}
}
