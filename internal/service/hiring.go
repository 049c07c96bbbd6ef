package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/queue"
	"github.com/prudvivenkat/agriconnect/internal/repository"
)

// HiringService runs the labor engagement lifecycle. Unlike bookings,
// transitions follow a strict role-scoped graph.
type HiringService struct {
	db      *sql.DB
	workers *repository.WorkerRepo
	hirings *repository.HiringRepo
	publish Publisher
}

func NewHiringService(db *sql.DB, workers *repository.WorkerRepo, hirings *repository.HiringRepo, publish Publisher) *HiringService {
	return &HiringService{db: db, workers: workers, hirings: hirings, publish: publish}
}

// Create hires a worker profile for an inclusive date range. The
// payment is daily_rate times the day count, fixed at creation. The
// worker availability flip uses the same conditional-update guard as
// bookings.
func (s *HiringService) Create(ctx context.Context, farmerID, profileID uint64, startDate, endDate string, workDescription *string) (*model.Hiring, error) {
	days, err := DaysInclusive(startDate, endDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	w, err := s.workers.GetByIDTx(ctx, tx, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if w.UserID == farmerID {
		return nil, ErrSelfDealing
	}

	flipped, err := s.workers.MarkBookedTx(ctx, tx, profileID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, ErrNotAvailable
	}

	h := &model.Hiring{
		WorkerProfileID: profileID,
		FarmerID:        farmerID,
		StartDate:       startDate,
		EndDate:         endDate,
		TotalPayment:    w.DailyRate * float64(days),
		WorkDescription: workDescription,
		Status:          model.HiringPending,
	}
	if err := s.hirings.CreateTx(ctx, tx, h); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	h.CreatedAt = time.Now().UTC()

	s.emit(ctx, h, "", model.HiringPending, farmerID)
	return h, nil
}

// allowedHiringMove applies the role-scoped graph. The worker decides
// on requests and closes out accepted work; the farmer may only back
// out before the work is done.
func allowedHiringMove(isWorker bool, from, to string) bool {
	if isWorker {
		switch {
		case from == model.HiringPending && (to == model.HiringAccepted || to == model.HiringRejected):
			return true
		case from == model.HiringAccepted && to == model.HiringCompleted:
			return true
		}
		return false
	}
	// farmer side
	return to == model.HiringCancelled &&
		(from == model.HiringPending || from == model.HiringAccepted)
}

// Transition moves a hiring along the graph. The actor must be the
// profile's worker or the record's farmer; anyone else is forbidden
// before the graph is even consulted. Terminal statuses free the
// worker for new engagements.
func (s *HiringService) Transition(ctx context.Context, actorID, hiringID uint64, newStatus string) (*model.Hiring, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	h, err := s.hirings.GetByIDTx(ctx, tx, hiringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	w, err := s.workers.GetByIDTx(ctx, tx, h.WorkerProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isWorker := actorID == w.UserID
	isFarmer := actorID == h.FarmerID
	if !isWorker && !isFarmer {
		return nil, ErrForbidden
	}
	if !allowedHiringMove(isWorker, h.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	prev := h.Status
	if err := s.hirings.UpdateStatusTx(ctx, tx, hiringID, newStatus); err != nil {
		return nil, err
	}
	if model.HiringTerminal(newStatus) {
		if err := s.workers.SetAvailabilityTx(ctx, tx, h.WorkerProfileID, model.AvailabilityAvailable); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	h.Status = newStatus

	s.emit(ctx, h, prev, newStatus, actorID)
	return h, nil
}

// ListByFarmer returns the farmer's hirings newest first.
func (s *HiringService) ListByFarmer(ctx context.Context, farmerID uint64) ([]model.Hiring, error) {
	return s.hirings.ListByFarmer(ctx, farmerID)
}

// ListForWorker returns the engagements against the worker's own
// profile.
func (s *HiringService) ListForWorker(ctx context.Context, workerUserID uint64) ([]model.Hiring, error) {
	w, err := s.workers.GetByUserID(ctx, workerUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.hirings.ListByWorkerProfile(ctx, w.ID)
}

func (s *HiringService) emit(ctx context.Context, h *model.Hiring, from, to string, actorID uint64) {
	if s.publish == nil {
		return
	}
	_ = s.publish(ctx, queue.LifecycleEvent{
		Kind:       "hiring",
		RecordID:   h.ID,
		SubjectID:  h.WorkerProfileID,
		ActorID:    actorID,
		FromStatus: from,
		ToStatus:   to,
		StartDate:  h.StartDate,
		EndDate:    h.EndDate,
		Amount:     h.TotalPayment,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
