package routes

import (
	"hostelhub_go/controllers"
	"hostelhub_go/middleware"
	"hostelhub_go/services"
	"hostelhub_go/services/websocket"
	"hostelhub_go/storage"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub, mailer *services.Mailer, storageService *storage.StorageService, health *services.HealthService) {
	authController := controllers.NewAuthController(mailer)
	roomController := controllers.NewRoomController()
	studentController := controllers.NewStudentController(storageService)
	feeController := controllers.NewFeeController()
	dashboardController := controllers.NewDashboardController()
	announcementController := controllers.NewAnnouncementController(wsHub)
	suggestionController := controllers.NewSuggestionController()
	logController := controllers.NewLogController()
	healthController := controllers.NewHealthController(health)
	wsController := controllers.NewWebSocketController(wsHub)

	app.Get("/health", healthController.Health)

	// Websocket feed. The upgrade check must run before the handler.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.Handler())

	api := app.Group("/api")

	// Authentication routes (no middleware except logout)
	auth := api.Group("/auth")
	auth.Post("/signup", authController.Signup)
	auth.Post("/login", authController.Login)
	auth.Post("/verify-otp", authController.VerifyOTP)
	auth.Post("/resend-otp", authController.ResendOTP)
	auth.Post("/logout", middleware.JWTMiddleware(), authController.Logout)

	// Protected routes (require authentication)
	// Each mutating handler records its own audit entry with action
	// details; no blanket audit middleware on the group.
	protected := api.Group("/", middleware.JWTMiddleware())

	rooms := protected.Group("/rooms")
	rooms.Get("/all", roomController.GetAllRooms)
	rooms.Get("/request/all", middleware.RequireAdmin(), roomController.PendingRequests)
	rooms.Get("/:id", roomController.GetRoom)
	rooms.Post("/create", middleware.RequireAdmin(), roomController.CreateRoom)
	rooms.Put("/update/:id", middleware.RequireAdmin(), roomController.UpdateRoom)
	rooms.Delete("/remove/:id", middleware.RequireAdmin(), roomController.DeleteRoom)
	rooms.Patch("/approve", middleware.RequireAdmin(), roomController.Approve)
	rooms.Patch("/remove-student/:id", middleware.RequireAdmin(), roomController.RemoveStudent)
	rooms.Patch("/add-student/:id", middleware.RequireAdmin(), roomController.AddStudent)

	students := protected.Group("/students")
	students.Get("/all", middleware.RequireAdmin(), studentController.GetAllStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Patch("/update/:id", studentController.UpdateStudent)
	students.Delete("/remove/:id", middleware.RequireAdmin(), studentController.DeleteStudent)
	students.Patch("/room-change/:id", studentController.RequestRoomChange)
	students.Post("/:id/avatar", studentController.UploadAvatar)

	fees := protected.Group("/fees")
	fees.Get("/all", middleware.RequireAdmin(), feeController.GetAllFees)
	fees.Post("/create", middleware.RequireAdmin(), feeController.CreateFee)
	fees.Get("/generate-voucher/:id", feeController.GenerateVoucher)
	fees.Get("/month/:month/:year", middleware.RequireAdmin(), feeController.GetVouchersByMonth)
	fees.Get("/export/:month/:year", middleware.RequireAdmin(), feeController.ExportVouchersXLSX)
	fees.Get("/vouchers/:id", feeController.GetVouchersByStudent)
	fees.Patch("/update-voucher/:id", middleware.RequireAdmin(), feeController.UpdateVoucher)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/admin", middleware.RequireAdmin(), dashboardController.AdminDashboard)
	dashboard.Get("/student/:id", dashboardController.StudentDashboard)
	dashboard.Get("/ws-stats", middleware.RequireAdmin(), wsController.Stats)

	announcements := protected.Group("/announcements")
	announcements.Get("/all", announcementController.GetAllAnnouncements)
	announcements.Post("/create", middleware.RequireAdmin(), announcementController.CreateAnnouncement)
	announcements.Delete("/remove/:id", middleware.RequireAdmin(), announcementController.DeleteAnnouncement)

	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/:id", logController.GetLog)
	logs.Post("/flush", logController.FlushCachedLogs)

	suggestions := protected.Group("/suggestions")
	suggestions.Get("/", suggestionController.GetAllSuggestions)
	suggestions.Post("/create", suggestionController.CreateSuggestion)
	suggestions.Delete("/remove/:id", middleware.RequireAdmin(), suggestionController.DeleteSuggestion)
}
