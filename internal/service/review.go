package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
)

// ReviewService gates and aggregates ratings. Worker reviews require
// a completed hiring between the parties; equipment reviews only
// require that the listing exists and is not the reviewer's own.
// Duplicate reviews from the same reviewer are allowed, the average
// simply absorbs them.
type ReviewService struct {
	reviews   *repository.ReviewRepo
	equipment *repository.EquipmentRepo
	workers   *repository.WorkerRepo
	hirings   *repository.HiringRepo
}

func NewReviewService(reviews *repository.ReviewRepo, equipment *repository.EquipmentRepo, workers *repository.WorkerRepo, hirings *repository.HiringRepo) *ReviewService {
	return &ReviewService{reviews: reviews, equipment: equipment, workers: workers, hirings: hirings}
}

// CreateEquipmentReview records a rating on a listing.
func (s *ReviewService) CreateEquipmentReview(ctx context.Context, reviewerID, equipmentID uint64, rating int, comment *string) (uint64, error) {
	if rating < 1 || rating > 5 {
		return 0, ErrInvalidRating
	}
	eq, err := s.equipment.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if eq.OwnerID == reviewerID {
		return 0, ErrSelfDealing
	}
	return s.reviews.CreateEquipmentReview(ctx, equipmentID, reviewerID, rating, comment)
}

// CreateWorkerReview records a rating on a profile. The reviewer must
// have a completed hiring against it.
func (s *ReviewService) CreateWorkerReview(ctx context.Context, reviewerID, profileID uint64, rating int, comment *string) (uint64, error) {
	if rating < 1 || rating > 5 {
		return 0, ErrInvalidRating
	}
	w, err := s.workers.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if w.UserID == reviewerID {
		return 0, ErrSelfDealing
	}
	done, err := s.hirings.HasCompleted(ctx, reviewerID, profileID)
	if err != nil {
		return 0, err
	}
	if !done {
		return 0, ErrForbidden
	}
	return s.reviews.CreateWorkerReview(ctx, profileID, reviewerID, rating, comment)
}

// EquipmentReviews returns a listing's reviews with its summary.
func (s *ReviewService) EquipmentReviews(ctx context.Context, equipmentID uint64) ([]model.Review, model.RatingSummary, error) {
	list, err := s.reviews.ListForEquipment(ctx, equipmentID)
	if err != nil {
		return nil, model.RatingSummary{}, err
	}
	sum, err := s.reviews.EquipmentSummary(ctx, equipmentID)
	if err != nil {
		return nil, model.RatingSummary{}, err
	}
	return list, sum, nil
}

// WorkerSummary returns just the rating aggregate for a profile.
// Used by directory listings where full review bodies are not needed.
func (s *ReviewService) WorkerSummary(ctx context.Context, profileID uint64) (model.RatingSummary, error) {
	return s.reviews.WorkerSummary(ctx, profileID)
}

// WorkerReviews returns a profile's reviews with its summary.
func (s *ReviewService) WorkerReviews(ctx context.Context, profileID uint64) ([]model.Review, model.RatingSummary, error) {
	list, err := s.reviews.ListForWorker(ctx, profileID)
	if err != nil {
		return nil, model.RatingSummary{}, err
	}
	sum, err := s.reviews.WorkerSummary(ctx, profileID)
	if err != nil {
		return nil, model.RatingSummary{}, err
	}
	return list, sum, nil
}
