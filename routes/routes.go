package routes

import (
	"room-booking/constants"
	"room-booking/controllers/announcement"
	"room-booking/controllers/auth"
	"room-booking/controllers/building"
	"room-booking/controllers/reservation"
	"room-booking/controllers/room"
	"room-booking/controllers/status"
	"room-booking/logger"
	"room-booking/middleware"
	"room-booking/services/notification"
	"room-booking/services/reconciler"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, engine *reconciler.Engine, notifier *reconciler.ChangeNotifier, hub *notification.Hub) {
	asyncLogger := logger.NewAsyncLogger(db)
	authController := auth.NewAuthController(db, asyncLogger)
	buildingController := building.NewBuildingController(db, asyncLogger)
	roomController := room.NewRoomController(db, asyncLogger, engine, notifier)
	reservationController := reservation.NewReservationController(db, asyncLogger, notifier)
	announcementController := announcement.NewAnnouncementController(db, asyncLogger)
	statusController := status.NewStatusController(db, asyncLogger, engine, hub)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "room-booking",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authController.Login)
	api.Post("/register", authController.Register)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.RequireAnyPermission())
	authGroup.Get("/profile", authController.Profile)
	authGroup.Post("/logout", authController.LogOut)

	/*=============================================================================
	| Building Routes
	===============================================================================*/
	buildingGroup := api.Group("/buildings")
	buildingGroup.Get("/", middleware.RequireAnyPermission(), buildingController.Index)
	buildingGroup.Post("/", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
	), buildingController.Store)
	buildingGroup.Delete("/:id", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
	), buildingController.Destroy)

	/*=============================================================================
	| Room Routes
	===============================================================================*/
	roomGroup := api.Group("/rooms")
	roomGroup.Get("/", middleware.RequireAnyPermission(), roomController.Index)
	roomGroup.Get("/:id", middleware.RequireAnyPermission(), roomController.Show)
	roomGroup.Post("/", middleware.RequirePermissions(constants.RoomAdminPermissions...), roomController.Store)
	roomGroup.Put("/:id", middleware.RequirePermissions(constants.RoomAdminPermissions...), roomController.Update)
	roomGroup.Delete("/:id", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
	), roomController.Destroy)

	// The mutator checks the super-admin permission again; the route guard
	// just rejects non-admin traffic before it reaches the engine.
	roomGroup.Post("/:id/maintenance", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
	), roomController.SetMaintenance)

	/*=============================================================================
	| Reservation Routes
	===============================================================================*/
	reservationGroup := api.Group("/reservations")
	reservationGroup.Get("/", middleware.RequireAnyPermission(), reservationController.Index)
	reservationGroup.Post("/", middleware.RequirePermissions(constants.BookingPermissions...), reservationController.Store)
	reservationGroup.Post("/parse", middleware.RequirePermissions(constants.BookingPermissions...), reservationController.ParseTextRequest)
	reservationGroup.Delete("/:id", middleware.RequireAnyPermission(), reservationController.Destroy)

	/*=============================================================================
	| Announcement Routes
	===============================================================================*/
	announcementGroup := api.Group("/announcements")
	announcementGroup.Get("/", middleware.RequireAnyPermission(), announcementController.Index)
	announcementGroup.Post("/", middleware.RequirePermissions(constants.RoomAdminPermissions...), announcementController.Store)
	announcementGroup.Delete("/:id", middleware.RequirePermissions(constants.RoomAdminPermissions...), announcementController.Destroy)

	/*=============================================================================
	| Status & Diagnostics Routes
	===============================================================================*/
	statusGroup := api.Group("/status")
	statusGroup.Get("/", middleware.RequireAnyPermission(), statusController.Overview)
	statusGroup.Get("/tracker", middleware.RequirePermissions(constants.RoomAdminPermissions...), statusController.Tracker)
	statusGroup.Post("/reconcile", middleware.RequirePermissions(constants.RoomAdminPermissions...), statusController.Reconcile)

	api.Get("/notifications/stream", middleware.RequireAnyPermission(), statusController.Stream)
}
