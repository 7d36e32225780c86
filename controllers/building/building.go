package building

import (
	"errors"

	"room-booking/logger"
	buildingModel "room-booking/models/building"
	"room-booking/types"
	roomTypes "room-booking/types/room"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BuildingController handles building-related HTTP requests
type BuildingController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewBuildingController creates a new building controller
func NewBuildingController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *BuildingController {
	return &BuildingController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (bc *BuildingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Index lists all buildings
func (bc *BuildingController) Index(c *fiber.Ctx) error {
	var buildings []buildingModel.Building
	if err := bc.DB.Order("name").Find(&buildings).Error; err != nil {
		logger.Error("Failed to list buildings", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Buildings retrieved",
		Data:    buildings,
	})
}

// Store creates a new building
func (bc *BuildingController) Store(c *fiber.Ctx) error {
	var req roomTypes.BuildingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userUUID, err := utils.ExtractUUIDFromToken(c)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
		})
	}

	floors := req.Floors
	if floors <= 0 {
		floors = 1
	}

	b := buildingModel.Building{
		Name:      req.Name,
		Address:   req.Address,
		Floors:    floors,
		CreatedBy: userInfo.Username,
	}

	if err := bc.DB.Create(&b).Error; err != nil {
		logger.Error("Failed to create building", err)
		return bc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Building already exists",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Building created",
		Data:    b,
	})
}

// Destroy deletes a building with no remaining rooms
func (bc *BuildingController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid building id",
		})
	}

	var b buildingModel.Building
	if err := bc.DB.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Building not found",
			})
		}
		logger.Error("Failed to load building", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	var roomCount int64
	if err := bc.DB.Table("rooms").Where("building_id = ? AND deleted_at IS NULL", id).Count(&roomCount).Error; err != nil {
		logger.Error("Failed to count rooms", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if roomCount > 0 {
		return bc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Building still has rooms",
		})
	}

	if err := bc.DB.Delete(&b).Error; err != nil {
		logger.Error("Failed to delete building", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Building deleted",
	})
}
