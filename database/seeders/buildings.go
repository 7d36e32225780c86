package seeders

import (
	"log"

	buildingModel "room-booking/models/building"
	roomModel "room-booking/models/room"

	"gorm.io/gorm"
)

// SeedBuildings inserts the default building and room layout when the tables
// are empty. Re-running is a no-op.
func SeedBuildings(db *gorm.DB) {
	log.Printf("🔍 Checking buildings data integrity...")

	var count int64
	if err := db.Model(&buildingModel.Building{}).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to count buildings: %v", err)
		return
	}
	if count > 0 {
		log.Printf("✅ Buildings already seeded (%d present)", count)
		return
	}

	buildings := []struct {
		building buildingModel.Building
		rooms    []roomModel.Room
	}{
		{
			building: buildingModel.Building{Name: "Main Building", Address: "Campus Center", Floors: 3, CreatedBy: "seeder"},
			rooms: []roomModel.Room{
				{Name: "Conference Room A", Floor: 1, Capacity: 12, CreatedBy: "seeder"},
				{Name: "Conference Room B", Floor: 1, Capacity: 8, CreatedBy: "seeder"},
				{Name: "Seminar Hall", Floor: 2, Capacity: 60, CreatedBy: "seeder"},
				{Name: "Study Room 301", Floor: 3, Capacity: 4, CreatedBy: "seeder"},
			},
		},
		{
			building: buildingModel.Building{Name: "Annex", Address: "North Wing", Floors: 2, CreatedBy: "seeder"},
			rooms: []roomModel.Room{
				{Name: "Workshop Room", Floor: 1, Capacity: 20, CreatedBy: "seeder"},
				{Name: "Media Lab", Floor: 2, Capacity: 16, CreatedBy: "seeder"},
			},
		},
	}

	for _, entry := range buildings {
		b := entry.building
		if err := db.Create(&b).Error; err != nil {
			log.Printf("❌ Failed to seed building %s: %v", b.Name, err)
			continue
		}
		for _, r := range entry.rooms {
			r.BuildingID = b.ID
			r.Status = roomModel.RoomStatusAvailable
			if err := db.Create(&r).Error; err != nil {
				log.Printf("❌ Failed to seed room %s: %v", r.Name, err)
			}
		}
		log.Printf("✅ Seeded building %s with %d rooms", b.Name, len(entry.rooms))
	}
}
