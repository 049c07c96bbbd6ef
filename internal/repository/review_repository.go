package repository

import (
	"context"
	"database/sql"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// ReviewRepo provides access to the two review tables. Equipment and
// worker reviews share a shape but live in separate tables, so each
// method takes the table layout through the same small set of
// queries.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// CreateEquipmentReview inserts a review on an equipment listing.
func (r *ReviewRepo) CreateEquipmentReview(ctx context.Context, equipmentID, reviewerID uint64, rating int, comment *string) (uint64, error) {
	const q = `INSERT INTO equipment_reviews (equipment_id, reviewer_id, rating, comment) VALUES (?, ?, ?, ?)`
	return r.insert(ctx, q, equipmentID, reviewerID, rating, comment)
}

// CreateWorkerReview inserts a review on a worker profile.
func (r *ReviewRepo) CreateWorkerReview(ctx context.Context, profileID, reviewerID uint64, rating int, comment *string) (uint64, error) {
	const q = `INSERT INTO worker_reviews (worker_profile_id, reviewer_id, rating, comment) VALUES (?, ?, ?, ?)`
	return r.insert(ctx, q, profileID, reviewerID, rating, comment)
}

func (r *ReviewRepo) insert(ctx context.Context, q string, targetID, reviewerID uint64, rating int, comment *string) (uint64, error) {
	res, err := r.db.ExecContext(ctx, q, targetID, reviewerID, rating, comment)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListForEquipment returns reviews on a listing, newest first.
func (r *ReviewRepo) ListForEquipment(ctx context.Context, equipmentID uint64) ([]model.Review, error) {
	const q = `SELECT id, equipment_id, reviewer_id, rating, comment, created_at
		FROM equipment_reviews WHERE equipment_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, equipmentID)
}

// ListForWorker returns reviews on a profile, newest first.
func (r *ReviewRepo) ListForWorker(ctx context.Context, profileID uint64) ([]model.Review, error) {
	const q = `SELECT id, worker_profile_id, reviewer_id, rating, comment, created_at
		FROM worker_reviews WHERE worker_profile_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, profileID)
}

func (r *ReviewRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		var comment sql.NullString
		if err := rows.Scan(&rv.ID, &rv.TargetID, &rv.ReviewerID, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			rv.Comment = &comment.String
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// EquipmentSummary aggregates ratings for a listing. COALESCE keeps
// the average at 0 when no reviews exist.
func (r *ReviewRepo) EquipmentSummary(ctx context.Context, equipmentID uint64) (model.RatingSummary, error) {
	const q = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM equipment_reviews WHERE equipment_id = ?`
	return r.summary(ctx, q, equipmentID)
}

// WorkerSummary aggregates ratings for a profile.
func (r *ReviewRepo) WorkerSummary(ctx context.Context, profileID uint64) (model.RatingSummary, error) {
	const q = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM worker_reviews WHERE worker_profile_id = ?`
	return r.summary(ctx, q, profileID)
}

func (r *ReviewRepo) summary(ctx context.Context, q string, targetID uint64) (model.RatingSummary, error) {
	var s model.RatingSummary
	err := r.db.QueryRowContext(ctx, q, targetID).Scan(&s.Average, &s.Count)
	return s, err
}
