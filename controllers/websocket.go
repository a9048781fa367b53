package controllers

import (
	"hostelhub_go/config"
	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// validateToken parses the feed token and loads the student it names.
// Browsers cannot set headers on websocket upgrades, so the JWT rides
// in a query parameter instead.
func (wsc *WebSocketController) validateToken(tokenString string) (*models.Student, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*middleware.Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	var student models.Student
	if err := database.DB.First(&student, claims.StudentID).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// Handler returns the Fiber handler for the announcement feed endpoint.
func (wsc *WebSocketController) Handler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		token := c.Query("token")
		if token == "" {
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		student, err := wsc.validateToken(token)
		if err != nil {
			logrus.WithError(err).Debug("Feed connection rejected")
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}

		wsc.hub.ServeConn(c, student.ID)
	})
}

// Stats reports the number of connected feed clients.
func (wsc *WebSocketController) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":           true,
		"connected_clients": wsc.hub.ClientCount(),
	})
}
