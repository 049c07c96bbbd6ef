package model

import "time"

// Availability values shared by equipment and worker profiles.
const (
	AvailabilityAvailable   = "available"
	AvailabilityBooked      = "booked"
	AvailabilityMaintenance = "maintenance"
)

// Equipment is a listed machine or tool offered for daily rental.
// Listings start unapproved and become publicly visible once an
// admin approves them.
//
// This struct corresponds to a row in the `equipment` table.
type Equipment struct {
	ID                 uint64     // equipment.id
	OwnerID            uint64     // equipment.owner_id
	Name               string     // equipment.name
	Category           string     // equipment.category
	Description        *string    // equipment.description (nullable)
	PricePerDay        float64    // equipment.price_per_day
	Location           *string    // equipment.location (nullable)
	ImageURL           *string    // equipment.image_url (nullable)
	AvailabilityStatus string     // equipment.availability_status
	IsApproved         bool       // equipment.is_approved
	RejectionReason    *string    // equipment.rejection_reason (nullable)
	ReviewedAt         *time.Time // equipment.reviewed_at (nullable)
	CreatedAt          time.Time  // equipment.created_at
}

// EquipmentCategory is a named grouping for listings.
type EquipmentCategory struct {
	ID          uint64  // equipment_categories.id
	Name        string  // equipment_categories.name
	Description *string // equipment_categories.description (nullable)
}

// EquipmentUpdate carries the owner-editable listing fields. Nil
// means "leave unchanged". Columns are enumerated here rather than
// taken from the request, so moderation fields cannot be smuggled
// into an update.
type EquipmentUpdate struct {
	Name               *string
	Category           *string
	Description        *string
	PricePerDay        *float64
	Location           *string
	ImageURL           *string
	AvailabilityStatus *string
}

// EquipmentFilter narrows equipment listings. All set fields apply
// conjunctively. Nil numeric fields mean "no constraint".
type EquipmentFilter struct {
	Category      string   // exact match
	Location      string   // case-insensitive substring
	MaxPrice      *float64 // price_per_day <=
	AvailableOnly bool     // availability_status = 'available'
	Search        string   // substring over name and description
	Limit         int
	Offset        int
}
