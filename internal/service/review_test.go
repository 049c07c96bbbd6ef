package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
)

func newReviewService(t *testing.T) (*ReviewService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := NewReviewService(
		repository.NewReviewRepo(db),
		repository.NewEquipmentRepo(db),
		repository.NewWorkerRepo(db),
		repository.NewHiringRepo(db),
	)
	return svc, mock
}

func TestWorkerReviewRequiresCompletedHiring(t *testing.T) {
	svc, mock := newReviewService(t)

	mock.ExpectQuery(`FROM worker_profiles WHERE id = \?`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityAvailable))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM worker_hirings`).
		WithArgs(uint64(8), uint64(3), model.HiringCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := svc.CreateWorkerReview(context.Background(), 8, 3, 4, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestWorkerReviewAfterCompletedHiring(t *testing.T) {
	svc, mock := newReviewService(t)

	mock.ExpectQuery(`FROM worker_profiles WHERE id = \?`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityAvailable))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM worker_hirings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO worker_reviews`).
		WithArgs(uint64(3), uint64(8), 4, nil).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := svc.CreateWorkerReview(context.Background(), 8, 3, 4, nil)
	if err != nil {
		t.Fatalf("CreateWorkerReview: %v", err)
	}
	if id != 5 {
		t.Errorf("id = %d, want 5", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEquipmentReviewNeedsNoBooking(t *testing.T) {
	svc, mock := newReviewService(t)

	mock.ExpectQuery(`FROM equipment WHERE id = \?`).
		WillReturnRows(equipmentRows(7, 2, 100, model.AvailabilityAvailable))
	mock.ExpectExec(`INSERT INTO equipment_reviews`).
		WithArgs(uint64(7), uint64(9), 5, nil).
		WillReturnResult(sqlmock.NewResult(6, 1))

	if _, err := svc.CreateEquipmentReview(context.Background(), 9, 7, 5, nil); err != nil {
		t.Fatalf("CreateEquipmentReview: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	svc, _ := newReviewService(t)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.CreateEquipmentReview(context.Background(), 9, 7, rating, nil); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", rating, err)
		}
		if _, err := svc.CreateWorkerReview(context.Background(), 8, 3, rating, nil); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", rating, err)
		}
	}
}

func TestReviewSelfForbidden(t *testing.T) {
	svc, mock := newReviewService(t)

	mock.ExpectQuery(`FROM equipment WHERE id = \?`).
		WillReturnRows(equipmentRows(7, 9, 100, model.AvailabilityAvailable))

	_, err := svc.CreateEquipmentReview(context.Background(), 9, 7, 4, nil)
	if !errors.Is(err, ErrSelfDealing) {
		t.Fatalf("err = %v, want ErrSelfDealing", err)
	}
}

func TestRatingSummary(t *testing.T) {
	svc, mock := newReviewService(t)

	// no reviews yet: (0, 0)
	mock.ExpectQuery(`FROM worker_reviews WHERE worker_profile_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_profile_id", "reviewer_id", "rating", "comment", "created_at"}))
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\), COUNT\(\*\) FROM worker_reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	_, sum, err := svc.WorkerReviews(context.Background(), 3)
	if err != nil {
		t.Fatalf("WorkerReviews: %v", err)
	}
	if sum.Average != 0 || sum.Count != 0 {
		t.Errorf("summary = (%v, %d), want (0, 0)", sum.Average, sum.Count)
	}

	// ratings 4 and 5: (4.5, 2)
	mock.ExpectQuery(`FROM worker_reviews WHERE worker_profile_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_profile_id", "reviewer_id", "rating", "comment", "created_at"}))
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\), COUNT\(\*\) FROM worker_reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))

	_, sum, err = svc.WorkerReviews(context.Background(), 3)
	if err != nil {
		t.Fatalf("WorkerReviews: %v", err)
	}
	if sum.Average != 4.5 || sum.Count != 2 {
		t.Errorf("summary = (%v, %d), want (4.5, 2)", sum.Average, sum.Count)
	}
}
