package request_parser

import (
	"time"

	"gorm.io/gorm"
)

// ParseRequest represents one free-text reservation request parsing attempt
type ParseRequest struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"` // 24 character unique ID
	RawText   string `json:"raw_text" gorm:"type:text;not null"`
	Status    string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed

	ProcessingTimeMs int64 `json:"processing_time_ms" gorm:"default:0"`

	// Parsed data fields
	RoomName  string `json:"room_name" gorm:"type:varchar(255);default:''"`
	Building  string `json:"building" gorm:"type:varchar(255);default:''"`
	Date      string `json:"date" gorm:"type:varchar(20);default:''"`       // YYYY-MM-DD
	StartTime string `json:"start_time" gorm:"type:varchar(10);default:''"` // HH:MM
	EndTime   string `json:"end_time" gorm:"type:varchar(10);default:''"`   // HH:MM
	Purpose   string `json:"purpose" gorm:"type:text;default:''"`

	// Error information
	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`

	// Metadata
	IPAddress string `json:"ip_address" gorm:"type:varchar(45);index;default:''"` // Support IPv6
	UserAgent string `json:"user_agent" gorm:"type:text;default:''"`

	// Timestamps
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for ParseRequest
func (ParseRequest) TableName() string {
	return "reservation_parse_requests"
}

// BeforeCreate hook to set default values
func (pr *ParseRequest) BeforeCreate(tx *gorm.DB) error {
	if pr.Status == "" {
		pr.Status = "processing"
	}
	return nil
}

// IsSuccess checks if the request was successful
func (pr *ParseRequest) IsSuccess() bool {
	return pr.Status == "success"
}

// IsFailed checks if the request failed
func (pr *ParseRequest) IsFailed() bool {
	return pr.Status == "failed"
}

// MarkAsSuccess marks the request as successful and saves parsed data
func (pr *ParseRequest) MarkAsSuccess(db *gorm.DB, parsed *ParseResponse) error {
	pr.Status = "success"
	pr.RoomName = parsed.RoomName
	pr.Building = parsed.Building
	pr.Date = parsed.Date
	pr.StartTime = parsed.StartTime
	pr.EndTime = parsed.EndTime
	pr.Purpose = parsed.Purpose
	pr.ProcessingTimeMs = parsed.ProcessingTimeMs

	return db.Save(pr).Error
}

// MarkAsFailed marks the request as failed with error message
func (pr *ParseRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTime int64) error {
	pr.Status = "failed"
	pr.ErrorMessage = errorMsg
	pr.ProcessingTimeMs = processingTime

	return db.Save(pr).Error
}

// ParseResponse represents the parsed data response
type ParseResponse struct {
	RequestID        string `json:"request_id"`
	RoomName         string `json:"room_name"`
	Building         string `json:"building"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Purpose          string `json:"purpose"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}
