package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"room-booking/database"
	"room-booking/models/user"
	"room-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// DateBucket truncates an instant to the beginning of its day, which is the
// key reservations are listed under.
func DateBucket(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateBucket(a).Equal(DateBucket(b))
}

// ExtractUUIDFromToken pulls the authenticated user's UUID out of the request
// claims placed by the auth middleware.
func ExtractUUIDFromToken(c *fiber.Ctx) (string, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("no authenticated user in request context")
	}

	uid, ok := claims["uuid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("uuid not found in token")
	}
	return uid, nil
}

// ExtractBearerToken returns the raw JWT from the Authorization header.
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", fmt.Errorf("invalid token format")
	}
	return tokenParts[1], nil
}

// IssueToken signs a JWT for the given user with the shared HMAC secret.
func IssueToken(u *user.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is empty")
	}

	claims := jwt.MapClaims{
		"uuid":        u.Uuid,
		"username":    u.Username,
		"legal_name":  u.LegalName,
		"permissions": []string(u.Permissions),
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CreateSanitizedLogEntry creates a deep copied log entry for async logging.
// All data is copied so the entry stays valid after fiber recycles the context.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := string(append([]byte(nil), c.Body()...))
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	// Deep copy headers
	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	actorUuid, _ := ExtractUUIDFromToken(c)

	return types.LogEntry{
		Method:          method,
		URL:             url,
		ActorUuid:       actorUuid,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

// GetUserByUUID retrieves a user by their UUID from the database
func GetUserByUUID(uuid string) (*user.User, error) {
	if uuid == "" {
		return nil, errors.New("UUID cannot be empty")
	}

	var userModel user.User
	if err := database.DB.Where("uuid = ?", uuid).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &userModel, nil
}
