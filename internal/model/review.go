package model

import "time"

// Review is a 1-5 rating with an optional comment, left either on an
// equipment listing (`equipment_reviews`) or on a worker profile
// (`worker_reviews`). Both tables share this shape; TargetID points
// at the equipment or worker profile row respectively.
type Review struct {
	ID         uint64    // id
	TargetID   uint64    // equipment_id or worker_profile_id
	ReviewerID uint64    // reviewer_id
	Rating     int       // rating (1..5)
	Comment    *string   // comment (nullable)
	CreatedAt  time.Time // created_at
}

// RatingSummary aggregates reviews for one target. Average is 0 when
// Count is 0.
type RatingSummary struct {
	Average float64
	Count   int
}
