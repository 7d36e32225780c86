package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"room-booking/database"
	"room-booking/logger"
	"room-booking/routes"
	"room-booking/services/notification"
	"room-booking/services/reconciler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       10 * 1024 * 1024, // 10MB body limit
	})
	env := godotenv.Load()
	if env != nil {
		logger.Error("Error loading .env file", env)
		fmt.Println("Error loading .env file", env)
	}
	// Use your custom logger to print a success message.
	logger.Success("Server is running on ip: " + os.Getenv("APP_HOST") + " port: " + os.Getenv("APP_PORT") +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	// Initialize database with new consolidated db.go
	db, err := database.InitDB()
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	// Wire the occupancy reconciliation engine
	notifier := reconciler.NewChangeNotifier()
	hub := notification.NewHub()
	engine := reconciler.New(
		reconciler.ConfigFromEnv(),
		reconciler.SystemClock(),
		&reconciler.GormReservationStore{DB: db},
		&reconciler.GormRoomStore{DB: db},
		&reconciler.GormAnnouncementStore{DB: db},
		notifier,
		hub,
	)

	engineCtx, stopEngine := context.WithCancel(context.Background())
	engine.Start(engineCtx)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("FRONTEND_URL"),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Use new consolidated routes
	routes.SetupRoutes(app, db, engine, notifier, hub)

	// Shut the engine down cleanly on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down")
		stopEngine()
		<-engine.Stopped()
		_ = app.Shutdown()
	}()

	app_host := os.Getenv("APP_HOST")
	app_port := os.Getenv("APP_PORT")
	if err := app.Listen(app_host + ":" + app_port); err != nil {
		logger.Error("Server stopped", err)
	}
	stopEngine()
}
