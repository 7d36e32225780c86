package request_parser

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"room-booking/logger"
	"room-booking/models/request_parser"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequestParserService handles free-text reservation request parsing records
type RequestParserService struct {
	DB *gorm.DB
}

// NewRequestParserService creates a new request parser service
func NewRequestParserService(db *gorm.DB) *RequestParserService {
	return &RequestParserService{DB: db}
}

// GenerateRequestID generates a 24 character unique request ID
func (s *RequestParserService) GenerateRequestID() string {
	// Generate 12 random bytes (which will become 24 hex characters)
	bytes := make([]byte, 12)
	rand.Read(bytes)

	requestID := hex.EncodeToString(bytes)

	// Timestamp prefix keeps IDs sortable and unique
	timestamp := time.Now().Unix()
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, requestID[:18])
}

// CreateInitialRequest creates an initial request record in the database
func (s *RequestParserService) CreateInitialRequest(c *fiber.Ctx, requestID, rawText string) (*request_parser.ParseRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}

	request := &request_parser.ParseRequest{
		RequestID: requestID,
		RawText:   rawText,
		Status:    "processing",
		IPAddress: ipAddress,
		UserAgent: c.Get("User-Agent"),
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}

	return request, nil
}

// SaveSuccessResultAsync saves the parsing result asynchronously
func (s *RequestParserService) SaveSuccessResultAsync(requestID string, result *request_parser.ParseResponse) {
	go func() {
		if err := s.saveSuccessResult(requestID, result); err != nil {
			logger.Error(fmt.Sprintf("Failed to save success result for request %s", requestID), err)
		}
	}()
}

func (s *RequestParserService) saveSuccessResult(requestID string, result *request_parser.ParseResponse) error {
	var request request_parser.ParseRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return fmt.Errorf("failed to find request: %w", err)
	}

	if err := request.MarkAsSuccess(s.DB, result); err != nil {
		return fmt.Errorf("failed to mark request as success: %w", err)
	}

	logger.Success(fmt.Sprintf("Parsing result saved successfully for request %s", requestID))
	return nil
}

// SaveFailureResultAsync saves the failure result asynchronously
func (s *RequestParserService) SaveFailureResultAsync(requestID string, errorMsg string, processingTime int64) {
	go func() {
		if err := s.saveFailureResult(requestID, errorMsg, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save failure result for request %s", requestID), err)
		}
	}()
}

func (s *RequestParserService) saveFailureResult(requestID string, errorMsg string, processingTime int64) error {
	var request request_parser.ParseRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return fmt.Errorf("failed to find request: %w", err)
	}

	if err := request.MarkAsFailed(s.DB, errorMsg, processingTime); err != nil {
		return fmt.Errorf("failed to mark request as failed: %w", err)
	}

	logger.Info(fmt.Sprintf("Failure result saved for request %s: %s", requestID, errorMsg))
	return nil
}

// GetRequestByID retrieves a request by ID
func (s *RequestParserService) GetRequestByID(requestID string) (*request_parser.ParseRequest, error) {
	var request request_parser.ParseRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// GetRequestsByStatus retrieves requests by status
func (s *RequestParserService) GetRequestsByStatus(status string, limit int) ([]request_parser.ParseRequest, error) {
	var requests []request_parser.ParseRequest
	query := s.DB.Where("status = ?", status).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}
