package reservation

import (
	"errors"
	"fmt"
	"time"

	"room-booking/constants"
	"room-booking/logger"
	reservationModel "room-booking/models/reservation"
	roomModel "room-booking/models/room"
	"room-booking/middleware"
	"room-booking/services/reconciler"
	"room-booking/services/reservation_event"
	"room-booking/types"
	reservationTypes "room-booking/types/reservation"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReservationController handles reservation-related HTTP requests
type ReservationController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Notifier *reconciler.ChangeNotifier
}

// NewReservationController creates a new reservation controller
func NewReservationController(db *gorm.DB, asyncLogger *logger.AsyncLogger, notifier *reconciler.ChangeNotifier) *ReservationController {
	return &ReservationController{
		DB:       db,
		Logger:   asyncLogger,
		Notifier: notifier,
	}
}

// Helper function to send response and log in one call
func (rc *ReservationController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Store creates a new reservation after an overlap scan inside a transaction.
// Overlap prevention happens here, at booking time; the reconciler never
// rejects windows after the fact.
func (rc *ReservationController) Store(c *fiber.Ctx) error {
	var req reservationTypes.ReservationCreateRequest
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

	userUUID, err := utils.ExtractUUIDFromToken(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
		})
	}

	date, start, end, err := req.Window()
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reservation window",
		})
	}
	if end.Before(time.Now()) {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Reservation window is in the past",
		})
	}

	var res reservationModel.Reservation

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var rm roomModel.Room
		if err := tx.First(&rm, req.RoomID).Error; err != nil {
			return err
		}
		if rm.Status.IsMaintenance() {
			return errRoomUnderMaintenance
		}

		var overlapping int64
		err := tx.Model(&reservationModel.Reservation{}).
			Where("room_id = ? AND date = ? AND status = ?", req.RoomID, date.Format("2006-01-02"), reservationModel.ReservationStatusApproved).
			Where("start_time < ? AND end_time > ?", end, start).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return errWindowOverlaps
		}

		res = reservationModel.Reservation{
			RoomID:    req.RoomID,
			UserID:    userInfo.ID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Purpose:   req.Purpose,
			Status:    reservationModel.ReservationStatusApproved,
			CreatedBy: userInfo.Username,
		}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}

		return reservation_event.SnapshotReservationStatus(tx, &res, reservationModel.ReservationStatusApproved, userInfo.Username)
	})

	if err != nil {
		switch {
		case errors.Is(err, errRoomUnderMaintenance):
			return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Room is under maintenance",
			})
		case errors.Is(err, errWindowOverlaps):
			return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Room is already reserved for that window",
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Room not found",
			})
		default:
			logger.Error("Failed to create reservation", err)
			return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
			})
		}
	}

	rc.Notifier.Publish(reconciler.ChangeEvent{Table: "reservations", Operation: "INSERT", Payload: res.ID})
	logger.Success(fmt.Sprintf("Reservation %d created for room %d", res.ID, res.RoomID))

	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Reservation created",
		Data:    res,
	})
}

// Index lists reservations, optionally filtered by room and date
func (rc *ReservationController) Index(c *fiber.Ctx) error {
	query := rc.DB.Preload("Room").Preload("User").Order("date, start_time")

	if roomID := c.QueryInt("room_id"); roomID > 0 {
		query = query.Where("room_id = ?", roomID)
	}
	if date := c.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "date must be YYYY-MM-DD",
			})
		}
		query = query.Where("date = ?", date)
	}

	var reservations []reservationModel.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		logger.Error("Failed to list reservations", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservations retrieved",
		Data:    reservations,
	})
}

// Destroy cancels a reservation that has not started yet. Owners may cancel
// their own; admins may cancel any.
func (rc *ReservationController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reservation id",
		})
	}

	userUUID, err := utils.ExtractUUIDFromToken(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
		})
	}

	var res reservationModel.Reservation
	if err := rc.DB.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Reservation not found",
			})
		}
		logger.Error("Failed to load reservation", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	isAdmin := middleware.CheckPermissionInController(c, constants.PermSuperAdminFull) ||
		middleware.CheckPermissionInController(c, constants.PermAdminFull)
	if res.UserID != userInfo.ID && !isAdmin {
		return rc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Not your reservation",
		})
	}

	if res.Status.IsCompleted() {
		return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Reservation already completed",
		})
	}
	if time.Now().After(res.StartTime) && !isAdmin {
		return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Reservation already started",
		})
	}

	if err := rc.DB.Delete(&res).Error; err != nil {
		logger.Error("Failed to delete reservation", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	rc.Notifier.Publish(reconciler.ChangeEvent{Table: "reservations", Operation: "DELETE", Payload: res.ID})

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservation cancelled",
	})
}

var (
	errRoomUnderMaintenance = errors.New("room under maintenance")
	errWindowOverlaps       = errors.New("reservation window overlaps")
)
