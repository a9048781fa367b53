package middleware

import (
	"context"
	"hostelhub_go/config"
	"hostelhub_go/database"
	"hostelhub_go/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	StudentID uint   `json:"student_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for a student
func GenerateToken(student *models.Student) (string, error) {
	claims := &Claims{
		StudentID: student.ID,
		Email:     student.Email,
		Role:      student.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// JWTMiddleware validates JWT bearer tokens
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Access token is required")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
		}

		// Reject tokens revoked by logout
		if rc := database.GetRedisClient(); rc != nil {
			if exists, err := rc.Exists(context.Background(), "blacklist:jwt:"+tokenString).Result(); err == nil && exists > 0 {
				return fiber.NewError(fiber.StatusUnauthorized, "Token has been revoked")
			}
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Token is not valid")
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return fiber.NewError(fiber.StatusForbidden, "Token is not valid")
		}

		// Verify the student still exists
		var student models.Student
		if err := database.DB.First(&student, claims.StudentID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Student not found")
		}

		c.Locals("student", &student)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireAdmin allows only admin accounts through
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*Claims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing claims")
		}
		if claims.Role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// GetCurrentStudent returns the authenticated student
func GetCurrentStudent(c *fiber.Ctx) (*models.Student, error) {
	student, ok := c.Locals("student").(*models.Student)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Student not found in context")
	}
	return student, nil
}

// GetCurrentClaims returns the current JWT claims
func GetCurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Claims not found in context")
	}
	return claims, nil
}
