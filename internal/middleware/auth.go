// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"github.com/cfischer83/inkwell/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Expected token issuer and audience; tokens minted elsewhere do not pass.
const (
	TokenIssuer   = "inkwell-api"
	TokenAudience = "inkwell-client"
)

var (
	cfg *config.Config

	// revocationStore, when set, backs the logout jti blacklist.
	revocationStore *redis.Client
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// UseRevocationList enables token revocation checks against Redis. Logout
// blacklists a token's jti; AuthRequired rejects blacklisted tokens.
func UseRevocationList(rdb *redis.Client) {
	revocationStore = rdb
}

// RevocationKey is the Redis key holding a revoked token's jti.
func RevocationKey(jti string) string {
	return "blacklist:" + jti
}

func isRevoked(c *fiber.Ctx, claims jwt.MapClaims) bool {
	if revocationStore == nil {
		return false
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return false
	}
	n, err := revocationStore.Exists(c.Context(), RevocationKey(jti)).Result()
	return err == nil && n > 0
}

// parseBearerToken validates a JWT and returns the user ID from its subject
// claim along with the token claims. Tokens from other issuers or audiences
// are rejected even when the signature checks out.
func parseBearerToken(tokenString string) (uint, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil || !token.Valid {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject")
	}

	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	return uint(userID), claims, nil
}

// ParseAuthenticatedToken validates the request's bearer token and returns the
// user ID and claims. Used by handlers that act on the presented token itself.
func ParseAuthenticatedToken(c *fiber.Ctx) (uint, jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}
	return parseBearerToken(parts[1])
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	userID, claims, err := parseBearerToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}
	if isRevoked(c, claims) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Token has been revoked",
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth resolves the user ID from a bearer token when one is present,
// but never rejects the request. Public read paths use it so editors see
// unpublished content while anonymous visitors still get published items.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}

	if userID, claims, err := parseBearerToken(parts[1]); err == nil && !isRevoked(c, claims) {
		c.Locals("userID", userID)
	}
	return c.Next()
}
