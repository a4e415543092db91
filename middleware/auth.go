// middleware/auth.go
package middleware

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// JWTSecret returns the signing key for session tokens.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "student-rewards-dev-secret"
	}
	return []byte(secret)
}

// IssueToken mints a session token for a CI and role.
func IssueToken(ci, role string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"ci":   ci,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(JWTSecret())
}

func parseToken(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// StudentAuth attaches the authenticated student's CI to the context.
func StudentAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		ci, _ := claims["ci"].(string)
		if ci == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token has no student identity"})
		}

		c.Locals("ci", ci)
		c.Locals("role", claims["role"])
		return c.Next()
	}
}

// AdminAuth only lets admin-role tokens through. Admin tokens come from the
// access-code exchange; there is no richer credential system behind them.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		role, _ := claims["role"].(string)
		if role != RoleAdmin {
			log.Printf("🚫 [AUTH] Non-admin token on admin route: %s", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}

		c.Locals("role", role)
		return c.Next()
	}
}
