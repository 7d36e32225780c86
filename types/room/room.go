package room

import (
	"fmt"
)

// RoomCreateRequest represents the request payload for creating a room
type RoomCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	BuildingID  uint   `json:"building_id" validate:"required"`
	Floor       int    `json:"floor" validate:"omitempty"`
	Capacity    int    `json:"capacity" validate:"omitempty,min=1"`
	Description string `json:"description" validate:"omitempty"`
}

func (r RoomCreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.BuildingID == 0 {
		return fmt.Errorf("building_id is required")
	}
	return nil
}

// RoomUpdateRequest represents the request payload for updating room metadata
type RoomUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Floor       *int    `json:"floor,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MaintenanceRequest represents the payload for the maintenance toggle
type MaintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason" validate:"omitempty,max=255"`
}

// BuildingCreateRequest represents the request payload for creating a building
type BuildingCreateRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Address string `json:"address" validate:"omitempty"`
	Floors  int    `json:"floors" validate:"omitempty,min=1"`
}

func (r BuildingCreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
