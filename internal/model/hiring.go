package model

import "time"

// Hiring statuses. Unlike bookings, hirings follow a strict graph:
// the worker moves pending to accepted or rejected and accepted to
// completed, the farmer may only cancel while pending or accepted.
const (
	HiringPending   = "pending"
	HiringAccepted  = "accepted"
	HiringRejected  = "rejected"
	HiringCompleted = "completed"
	HiringCancelled = "cancelled"
)

// Hiring is a labor engagement between a farmer and a worker
// profile. TotalPayment is fixed at creation: daily_rate times the
// inclusive day count.
//
// This struct corresponds to a row in the `worker_hirings` table.
type Hiring struct {
	ID              uint64    // worker_hirings.id
	WorkerProfileID uint64    // worker_hirings.worker_profile_id
	FarmerID        uint64    // worker_hirings.farmer_id
	StartDate       string    // worker_hirings.start_date (YYYY-MM-DD)
	EndDate         string    // worker_hirings.end_date (YYYY-MM-DD)
	TotalPayment    float64   // worker_hirings.total_payment
	WorkDescription *string   // worker_hirings.work_description (nullable)
	Status          string    // worker_hirings.status
	CreatedAt       time.Time // worker_hirings.created_at
}

// HiringTerminal reports whether status s frees the worker for new
// engagements.
func HiringTerminal(s string) bool {
	switch s {
	case HiringRejected, HiringCompleted, HiringCancelled:
		return true
	}
	return false
}
