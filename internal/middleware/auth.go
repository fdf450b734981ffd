package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/meal-cart/internal/config"
	"github.com/foxxcyber/meal-cart/internal/models"
)

var (
	ErrMissingToken  = errors.New("missing authorization header")
	ErrTokenFormat   = errors.New("invalid authorization format")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// JWTClaims represents the claims in our JWT token. Tokens are issued by the
// household account service; this API only verifies them.
type JWTClaims struct {
	UserID int         `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrTokenFormat
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

// ParseToken validates an HMAC-signed token and returns its claims. Meal plans
// and lists are scoped per user, so a token without a user id is rejected.
func ParseToken(secret, tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// AuthRequired middleware checks for a valid JWT token and stores the
// household member it identifies in the request locals
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Extract token
		tokenString, err := BearerToken(c.Get("Authorization"))
		if err != nil {
			return reject(c, fiber.StatusUnauthorized, err)
		}

		// Parse and validate token
		claims, err := ParseToken(cfg.JWTSecret, tokenString)
		if err != nil {
			return reject(c, fiber.StatusUnauthorized, err)
		}

		// Store user info in context
		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// OwnerRequired middleware restricts a route to the household owner, who
// curates the shared ingredient catalogue
func OwnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return reject(c, fiber.StatusUnauthorized, errors.New("unauthorized"))
		}

		if role != models.RoleOwner {
			return reject(c, fiber.StatusForbidden, errors.New("owner access required"))
		}

		return c.Next()
	}
}

// GetUserID extracts the user ID from the context
func GetUserID(c *fiber.Ctx) int {
	if id, ok := c.Locals("user_id").(int); ok {
		return id
	}
	return 0
}

// reject answers with the API's error envelope
func reject(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
