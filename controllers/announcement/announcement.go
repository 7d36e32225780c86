package announcement

import (
	"errors"

	"room-booking/logger"
	announcementModel "room-booking/models/announcement"
	"room-booking/types"
	announcementTypes "room-booking/types/announcement"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnnouncementController handles announcement-related HTTP requests
type AnnouncementController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewAnnouncementController creates a new announcement controller
func NewAnnouncementController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *AnnouncementController {
	return &AnnouncementController{
		DB:     db,
		Logger: asyncLogger,
	}
}

// Helper function to send response and log in one call
func (ac *AnnouncementController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Index lists announcements, newest first. Maintenance announcements are
// included so clients render the full board.
func (ac *AnnouncementController) Index(c *fiber.Ctx) error {
	query := ac.DB.Preload("Author").Order("created_at DESC")

	if kind := c.Query("kind"); kind != "" {
		if !announcementModel.AnnouncementKind(kind).IsValid() {
			return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid announcement kind",
			})
		}
		query = query.Where("kind = ?", kind)
	}

	var announcements []announcementModel.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		logger.Error("Failed to list announcements", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Announcements retrieved",
		Data:    announcements,
	})
}

// Store creates a general announcement. Maintenance announcements are managed
// by the occupancy engine and cannot be created here.
func (ac *AnnouncementController) Store(c *fiber.Ctx) error {
	var req announcementTypes.AnnouncementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userUUID, err := utils.ExtractUUIDFromToken(c)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
		})
	}

	a := announcementModel.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		Kind:     announcementModel.KindGeneral,
		AuthorID: userInfo.ID,
	}
	if err := ac.DB.Create(&a).Error; err != nil {
		logger.Error("Failed to create announcement", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Announcement created",
		Data:    a,
	})
}

// Destroy deletes a general announcement. Engine-managed maintenance
// announcements are refused so the board stays consistent with room status.
func (ac *AnnouncementController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid announcement id",
		})
	}

	var a announcementModel.Announcement
	if err := ac.DB.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ac.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Announcement not found",
			})
		}
		logger.Error("Failed to load announcement", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if a.Kind == announcementModel.KindMaintenance {
		return ac.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Maintenance announcements are managed automatically",
		})
	}

	if err := ac.DB.Delete(&a).Error; err != nil {
		logger.Error("Failed to delete announcement", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Announcement deleted",
	})
}
