package model

import "time"

// Booking statuses. Owners may move a booking to any of these, the
// graph is intentionally not restricted on the equipment side.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingRejected  = "rejected"
	BookingCompleted = "completed"
)

// Booking is an equipment rental request. TotalPrice is fixed at
// creation time: price_per_day times the inclusive day count of the
// date range.
//
// This struct corresponds to a row in the `equipment_bookings` table.
type Booking struct {
	ID          uint64    // equipment_bookings.id
	EquipmentID uint64    // equipment_bookings.equipment_id
	RenterID    uint64    // equipment_bookings.renter_id
	StartDate   string    // equipment_bookings.start_date (YYYY-MM-DD)
	EndDate     string    // equipment_bookings.end_date (YYYY-MM-DD)
	TotalPrice  float64   // equipment_bookings.total_price
	Status      string    // equipment_bookings.status
	Notes       *string   // equipment_bookings.notes (nullable)
	CreatedAt   time.Time // equipment_bookings.created_at
}

// BookingStatusValid reports whether s is a recognised booking status.
func BookingStatusValid(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

// BookingOccupies reports whether a booking in status s keeps the
// equipment marked as booked. Only pending and confirmed do.
func BookingOccupies(s string) bool {
	return s == BookingPending || s == BookingConfirmed
}
