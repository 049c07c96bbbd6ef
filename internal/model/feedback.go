package model

import "time"

// Feedback kinds and workflow statuses.
const (
	FeedbackBug     = "bug"
	FeedbackFeature = "feature"
	FeedbackGeneral = "feedback"

	FeedbackPending  = "pending"
	FeedbackReviewed = "reviewed"
	FeedbackResolved = "resolved"
)

// Feedback is a user-submitted report handled by admins.
//
// This struct corresponds to a row in the `feedback` table.
type Feedback struct {
	ID            uint64     // feedback.id
	UserID        uint64     // feedback.user_id
	Type          string     // feedback.feedback_type (bug|feature|feedback)
	Subject       string     // feedback.subject
	Description   string     // feedback.description
	Status        string     // feedback.status
	AdminResponse *string    // feedback.admin_response (nullable)
	CreatedAt     time.Time  // feedback.created_at
	UpdatedAt     *time.Time // feedback.updated_at (nullable)
}

// ValidFeedbackType reports whether t is an accepted feedback kind.
func ValidFeedbackType(t string) bool {
	switch t {
	case FeedbackBug, FeedbackFeature, FeedbackGeneral:
		return true
	}
	return false
}
