package controllers

import (
	"context"
	"strings"
	"time"

	"hostelhub_go/config"
	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	mailer *services.Mailer
}

func NewAuthController(mailer *services.Mailer) *AuthController {
	return &AuthController{mailer: mailer}
}

// SignupRequest represents the registration request body
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	College  string `json:"college" validate:"required"`
	Course   string `json:"course" validate:"required,oneof='Social Sciences' Engineering Humanitarian Medical"`
	Hostel   string `json:"hostel" validate:"required,oneof=Hostel1 Hostel2 Hostel3 Hostel4"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPRequest carries the email + code pair for verification
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func otpKey(email string) string {
	return "otp:signup:" + strings.ToLower(email)
}

// Signup registers a new unverified student account and mails an OTP.
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Student
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return utils.Conflict("Student already exists with this email!")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Internal("Failed to hash password")
	}

	student := models.Student{
		Name:     utils.SanitizeString(req.Name),
		Email:    email,
		Password: hashed,
		College:  utils.SanitizeString(req.College),
		Course:   req.Course,
		Hostel:   req.Hostel,
		Role:     models.RoleStudent,
		Verified: false,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		// Concurrent signup with the same email loses to the unique index.
		if utils.IsDuplicateKeyError(err) {
			return utils.Conflict("Student already exists with this email!")
		}
		return utils.Internal("Failed to create student")
	}

	if err := ac.sendOTP(&student); err != nil {
		return utils.Internal("Failed to send verification email")
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{"email": student.Email})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Signup successful, please verify your email!",
		"student": fiber.Map{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		},
	})
}

// Login authenticates a verified student and returns a JWT.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.Where("email = ?", strings.ToLower(req.Email)).First(&student).Error; err != nil {
		return utils.Unauthorized("Invalid credentials!")
	}
	if err := utils.CheckPassword(req.Password, student.Password); err != nil {
		return utils.Unauthorized("Invalid credentials!")
	}
	if !student.Verified {
		return utils.Forbidden("Please verify your email before logging in!")
	}

	token, err := middleware.GenerateToken(&student)
	if err != nil {
		return utils.Internal("Failed to generate token")
	}

	middleware.LogActivity(c, "LOGIN", "auth", student.ID, fiber.Map{"email": student.Email})

	billing := services.NewBillingService()
	var room *models.Room
	if student.RoomID != nil {
		var r models.Room
		if err := database.DB.First(&r, *student.RoomID).Error; err == nil {
			room = &r
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"student": utils.ToStudentDTO(student, room, billing.CurrentFeeStatus(student.ID)),
	})
}

// VerifyOTP marks the account verified when the code matches.
func (ac *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var student models.Student
	if err := database.DB.Where("email = ?", email).First(&student).Error; err != nil {
		return utils.NotFound("Student not found!")
	}
	if student.Verified {
		return c.JSON(fiber.Map{"success": true, "message": "Email already verified"})
	}

	rc := database.GetRedisClient()
	if rc == nil {
		return utils.Internal("Verification service unavailable")
	}

	stored, err := rc.Get(context.Background(), otpKey(email)).Result()
	if err != nil || stored != req.OTP {
		return utils.BadRequest("Invalid or expired OTP!")
	}

	if err := database.DB.Model(&student).Update("verified", true).Error; err != nil {
		return utils.Internal("Failed to verify account")
	}
	rc.Del(context.Background(), otpKey(email))

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"action": "email_verified"})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
	})
}

// ResendOTP issues a fresh code for an unverified account.
func (ac *AuthController) ResendOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var student models.Student
	if err := database.DB.Where("email = ?", email).First(&student).Error; err != nil {
		return utils.NotFound("Student not found!")
	}
	if student.Verified {
		return utils.Conflict("Email is already verified!")
	}

	if err := ac.sendOTP(&student); err != nil {
		return utils.Internal("Failed to send verification email")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP resent successfully",
	})
}

// Logout blacklists the presented JWT in Redis until it would have
// expired anyway.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return utils.BadRequest("Invalid authorization header format")
	}

	rc := database.GetRedisClient()
	if rc != nil {
		key := "blacklist:jwt:" + tokenString
		if err := rc.Set(context.Background(), key, "1", 24*time.Hour).Err(); err != nil {
			middleware.LogActivity(c, "LOGOUT", "auth", 0, fiber.Map{"error": err.Error()})
		}
	}

	if student, err := middleware.GetCurrentStudent(c); err == nil {
		middleware.LogActivity(c, "LOGOUT", "auth", student.ID, fiber.Map{"email": student.Email})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (ac *AuthController) sendOTP(student *models.Student) error {
	otp, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	rc := database.GetRedisClient()
	if rc == nil {
		return fiber.ErrServiceUnavailable
	}
	ttl := config.AppConfig.OTPExpiresIn
	if err := rc.Set(context.Background(), otpKey(student.Email), otp, ttl).Err(); err != nil {
		return err
	}

	return ac.mailer.SendOTP(student.Name, student.Email, otp)
}
