package room

import (
	"errors"
	"fmt"

	"room-booking/logger"
	roomModel "room-booking/models/room"
	"room-booking/services/reconciler"
	"room-booking/types"
	roomTypes "room-booking/types/room"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoomController handles room-related HTTP requests
type RoomController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Engine   *reconciler.Engine
	Notifier *reconciler.ChangeNotifier
}

// NewRoomController creates a new room controller
func NewRoomController(db *gorm.DB, asyncLogger *logger.AsyncLogger, engine *reconciler.Engine, notifier *reconciler.ChangeNotifier) *RoomController {
	return &RoomController{
		DB:       db,
		Logger:   asyncLogger,
		Engine:   engine,
		Notifier: notifier,
	}
}

// Helper function to send response and log in one call
func (rc *RoomController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// actorFromRequest resolves the authenticated user into a reconciler actor.
func actorFromRequest(c *fiber.Ctx) (reconciler.Actor, error) {
	userUUID, err := utils.ExtractUUIDFromToken(c)
	if err != nil {
		return reconciler.Actor{}, err
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return reconciler.Actor{}, err
	}
	return reconciler.Actor{
		ID:          userInfo.ID,
		Uuid:        userInfo.Uuid,
		Name:        userInfo.Username,
		Permissions: userInfo.Permissions,
	}, nil
}

// Index lists all rooms with their building
func (rc *RoomController) Index(c *fiber.Ctx) error {
	var rooms []roomModel.Room
	if err := rc.DB.Preload("Building").Order("building_id, floor, name").Find(&rooms).Error; err != nil {
		logger.Error("Failed to list rooms", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rooms retrieved",
		Data:    rooms,
	})
}

// Show returns one room
func (rc *RoomController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room id",
		})
	}

	var rm roomModel.Room
	if err := rc.DB.Preload("Building").First(&rm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Room not found",
			})
		}
		logger.Error("Failed to load room", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room retrieved",
		Data:    rm,
	})
}

// Store creates a new room
func (rc *RoomController) Store(c *fiber.Ctx) error {
	var req roomTypes.RoomCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	actor, err := actorFromRequest(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	rm := roomModel.Room{
		Name:        req.Name,
		BuildingID:  req.BuildingID,
		Floor:       req.Floor,
		Capacity:    capacity,
		Status:      roomModel.RoomStatusAvailable,
		Description: req.Description,
		CreatedBy:   actor.Name,
	}

	if err := rc.DB.Create(&rm).Error; err != nil {
		logger.Error("Failed to create room", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	rc.Notifier.Publish(reconciler.ChangeEvent{Table: "rooms", Operation: "INSERT", Payload: rm.ID})

	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Room created",
		Data:    rm,
	})
}

// Update changes room metadata (not status; status belongs to the reconciler
// and the maintenance toggle)
func (rc *RoomController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room id",
		})
	}

	var req roomTypes.RoomUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	actor, err := actorFromRequest(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	updates := map[string]interface{}{"updated_by": actor.Name}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	result := rc.DB.Model(&roomModel.Room{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update room", result.Error)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if result.RowsAffected == 0 {
		return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Room not found",
		})
	}

	rc.Notifier.Publish(reconciler.ChangeEvent{Table: "rooms", Operation: "UPDATE", Payload: id})

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room updated",
	})
}

// SetMaintenance toggles a room in or out of maintenance. This is the only
// path that may cross the maintenance boundary, and it goes through the
// reconciler's mutator so the permission guard and announcement side-effects
// apply uniformly.
func (rc *RoomController) SetMaintenance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room id",
		})
	}

	var req roomTypes.MaintenanceRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	actor, err := actorFromRequest(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	updated, changed, err := rc.Engine.Mutator().SetMaintenance(c.Context(), uint(id), req.Enabled, actor, req.Reason)
	if err != nil {
		if errors.Is(err, reconciler.ErrPermissionDenied) {
			return rc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Only a super admin may change maintenance status",
			})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Room not found",
			})
		}
		logger.Error(fmt.Sprintf("Failed to set maintenance on room %d", id), err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to change room status",
		})
	}

	if changed {
		rc.Notifier.Publish(reconciler.ChangeEvent{Table: "rooms", Operation: "UPDATE", Payload: id})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room status updated",
		Data:    updated,
	})
}

// Destroy deletes a room
func (rc *RoomController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room id",
		})
	}

	result := rc.DB.Delete(&roomModel.Room{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete room", result.Error)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if result.RowsAffected == 0 {
		return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Room not found",
		})
	}

	rc.Notifier.Publish(reconciler.ChangeEvent{Table: "rooms", Operation: "DELETE", Payload: id})

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room deleted",
	})
}
