package model

import "time"

// WorkerProfile advertises a laborer for daily hire. One profile per
// worker account. Profiles go through the same admin moderation as
// equipment listings.
//
// This struct corresponds to a row in the `worker_profiles` table.
type WorkerProfile struct {
	ID              uint64     // worker_profiles.id
	UserID          uint64     // worker_profiles.user_id
	Skills          string     // worker_profiles.skills (comma separated)
	Experience      *string    // worker_profiles.experience (nullable)
	DailyRate       float64    // worker_profiles.daily_rate
	Location        *string    // worker_profiles.location (nullable)
	Availability    string     // worker_profiles.availability
	ToolsOwned      *string    // worker_profiles.tools_owned (nullable)
	IsApproved      bool       // worker_profiles.is_approved
	RejectionReason *string    // worker_profiles.rejection_reason (nullable)
	ReviewedAt      *time.Time // worker_profiles.reviewed_at (nullable)
	CreatedAt       time.Time  // worker_profiles.created_at
}

// WorkerFilter narrows worker listings, conjunctively.
type WorkerFilter struct {
	Skills        string   // case-insensitive substring
	Location      string   // case-insensitive substring
	MaxRate       *float64 // daily_rate <=
	ToolsOwned    string   // case-insensitive substring
	AvailableOnly bool     // availability = 'available'
	Limit         int
	Offset        int
}

// WorkerProfileUpdate carries the caller-editable profile fields.
// Nil means "leave unchanged". Columns are enumerated here rather
// than taken from the request, so moderation fields cannot be
// smuggled into an update.
type WorkerProfileUpdate struct {
	Skills     *string
	Experience *string
	DailyRate  *float64
	Location   *string
	ToolsOwned *string
}
