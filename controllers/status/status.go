package status

import (
	"bufio"
	"encoding/json"
	"fmt"

	"room-booking/logger"
	roomModel "room-booking/models/room"
	"room-booking/services/notification"
	"room-booking/services/reconciler"
	"room-booking/types"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

// StatusController exposes occupancy engine diagnostics and the live
// notification stream.
type StatusController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
	Engine *reconciler.Engine
	Hub    *notification.Hub
}

// NewStatusController creates a new status controller
func NewStatusController(db *gorm.DB, asyncLogger *logger.AsyncLogger, engine *reconciler.Engine, hub *notification.Hub) *StatusController {
	return &StatusController{
		DB:     db,
		Logger: asyncLogger,
		Engine: engine,
		Hub:    hub,
	}
}

// Helper function to send response and log in one call
func (sc *StatusController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	sc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Overview returns per-status room counts plus the engine health flag.
func (sc *StatusController) Overview(c *fiber.Ctx) error {
	type statusCount struct {
		Status roomModel.RoomStatus `json:"status"`
		Count  int64                `json:"count"`
	}

	var counts []statusCount
	err := sc.DB.Model(&roomModel.Room{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to count room statuses", err)
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Status overview retrieved",
		Data: map[string]interface{}{
			"rooms":    counts,
			"degraded": sc.Engine.Degraded(),
		},
	})
}

// Tracker returns the engine's in-memory status tracker, keyed by room ID.
// Intended for operators debugging cooldown behavior.
func (sc *StatusController) Tracker(c *fiber.Ctx) error {
	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Tracker snapshot retrieved",
		Data:    sc.Engine.TrackerSnapshot(),
	})
}

// Reconcile requests an immediate reconciliation pass. The engine coalesces
// the request if a pass is already running.
func (sc *StatusController) Reconcile(c *fiber.Ctx) error {
	sc.Engine.RequestRun()
	logger.Info("Manual reconciliation pass requested")

	return sc.sendResponseWithLog(c, fiber.StatusAccepted, types.ApiResponse{
		Status:  fiber.StatusAccepted,
		Message: "Reconciliation pass requested",
	})
}

// Stream pushes engine notifications to the client as server-sent events.
// The connection stays open until the client disconnects.
func (sc *StatusController) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ch, cancel := sc.Hub.Subscribe()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for n := range ch {
			payload, err := json.Marshal(n)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// Client went away
				return
			}
		}
	}))

	return nil
}
