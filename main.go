package main

import (
	"log"
	"os"

	"hostelhub_go/config"
	"hostelhub_go/database"
	"hostelhub_go/database/seeders"
	"hostelhub_go/middleware"
	"hostelhub_go/routes"
	"hostelhub_go/services"
	"hostelhub_go/services/websocket"
	"hostelhub_go/storage"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func init() {
	config.LoadConfig()
	setupLogging()
	database.Connect()

	if config.AppConfig.SeedOnBoot {
		seeders.SeedAll()
	}
}

func main() {
	wsHub := websocket.NewHub()
	go wsHub.Run()

	scheduler := services.NewVoucherScheduler()
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start voucher scheduler:", err)
	}
	defer scheduler.Stop()

	logFlush := services.NewLogFlushService()
	logFlush.StartMaintenance()

	mailer := services.NewMailer(config.AppConfig)

	storageService, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable, avatar uploads disabled")
		storageService = nil
	}

	health := services.NewHealthService("HostelHub API", "1.0.0")

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(config.AppConfig.MaxFileSize),
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.LoggerMiddleware())

	routes.SetupRoutes(app, wsHub, mailer, storageService, health)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"status":  fiber.StatusNotFound,
			"message": "Route not found",
		})
	})

	logrus.WithFields(logrus.Fields{
		"port": config.AppConfig.Port,
		"env":  config.AppConfig.AppEnv,
	}).Info("HostelHub API starting")

	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures logrus from the environment.
func setupLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.AppConfig.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
}

// customErrorHandler renders every error as the API's envelope.
// Service and controller errors arrive as *utils.AppError carrying
// their HTTP status; anything else is an internal error.
func customErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal Server Error"

	switch e := err.(type) {
	case *utils.AppError:
		status = e.Status
		message = e.Message
	case *fiber.Error:
		status = e.Code
		message = e.Message
	}

	if status >= fiber.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Path(),
			"method": c.Method(),
			"ip":     c.IP(),
			"status": status,
		}).Error("Request error")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"status":  status,
		"message": message,
	})
}
