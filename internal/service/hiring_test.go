package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
)

func newHiringService(t *testing.T) (*HiringService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := NewHiringService(db, repository.NewWorkerRepo(db), repository.NewHiringRepo(db), nil)
	return svc, mock
}

func workerRows(id, userID uint64, dailyRate float64, availability string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "skills", "experience", "daily_rate", "location",
		"availability", "tools_owned", "is_approved", "rejection_reason",
		"reviewed_at", "created_at",
	}).AddRow(id, userID, "plowing,harvest", nil, dailyRate, nil, availability, nil, true, nil, nil, time.Now())
}

func hiringRows(id, profileID, farmerID uint64, status string, total float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "worker_profile_id", "farmer_id", "start_date", "end_date",
		"total_payment", "work_description", "status", "created_at",
	}).AddRow(id, profileID, farmerID, "2025-06-01", "2025-06-05", total, nil, status, time.Now())
}

func TestHiringCreatePayment(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityAvailable))
	mock.ExpectExec(`UPDATE worker_profiles SET availability = \? WHERE id = \? AND availability = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO worker_hirings`).
		WithArgs(uint64(3), uint64(8), "2025-06-01", "2025-06-05", 250.0, nil, model.HiringPending).
		WillReturnResult(sqlmock.NewResult(17, 1))
	mock.ExpectCommit()

	h, err := svc.Create(context.Background(), 8, 3, "2025-06-01", "2025-06-05", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.TotalPayment != 250 {
		t.Errorf("TotalPayment = %v, want 250", h.TotalPayment)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestHiringCreateWorkerBusy(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityBooked))
	mock.ExpectExec(`UPDATE worker_profiles SET availability = \? WHERE id = \? AND availability = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 8, 3, "2025-06-01", "2025-06-05", nil)
	if !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}
}

func TestHiringWorkerAcceptsPending(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_hirings WHERE id = \? FOR UPDATE`).
		WillReturnRows(hiringRows(17, 3, 8, model.HiringPending, 250))
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityBooked))
	mock.ExpectExec(`UPDATE worker_hirings SET status = \? WHERE id = \?`).
		WithArgs(model.HiringAccepted, uint64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h, err := svc.Transition(context.Background(), 12, 17, model.HiringAccepted)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if h.Status != model.HiringAccepted {
		t.Errorf("Status = %q, want accepted", h.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestHiringFarmerCannotAccept(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_hirings WHERE id = \? FOR UPDATE`).
		WillReturnRows(hiringRows(17, 3, 8, model.HiringPending, 250))
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityBooked))
	mock.ExpectRollback()

	// actor 8 is the farmer; accepting is the worker's move
	_, err := svc.Transition(context.Background(), 8, 17, model.HiringAccepted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestHiringCompleteFreesWorker(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_hirings WHERE id = \? FOR UPDATE`).
		WillReturnRows(hiringRows(17, 3, 8, model.HiringAccepted, 250))
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityBooked))
	mock.ExpectExec(`UPDATE worker_hirings SET status = \? WHERE id = \?`).
		WithArgs(model.HiringCompleted, uint64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE worker_profiles SET availability = \? WHERE id = \?`).
		WithArgs(model.AvailabilityAvailable, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := svc.Transition(context.Background(), 12, 17, model.HiringCompleted); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestHiringFarmerCancelsPending(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_hirings WHERE id = \? FOR UPDATE`).
		WillReturnRows(hiringRows(17, 3, 8, model.HiringPending, 250))
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityBooked))
	mock.ExpectExec(`UPDATE worker_hirings SET status = \? WHERE id = \?`).
		WithArgs(model.HiringCancelled, uint64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE worker_profiles SET availability = \? WHERE id = \?`).
		WithArgs(model.AvailabilityAvailable, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := svc.Transition(context.Background(), 8, 17, model.HiringCancelled); err != nil {
		t.Fatalf("Transition: %v", err)
	}
}

func TestHiringStrangerForbidden(t *testing.T) {
	svc, mock := newHiringService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM worker_hirings WHERE id = \? FOR UPDATE`).
		WillReturnRows(hiringRows(17, 3, 8, model.HiringPending, 250))
	mock.ExpectQuery(`FROM worker_profiles WHERE id = \? FOR UPDATE`).
		WillReturnRows(workerRows(3, 12, 50, model.AvailabilityBooked))
	mock.ExpectRollback()

	_, err := svc.Transition(context.Background(), 99, 17, model.HiringCancelled)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestAllowedHiringMove(t *testing.T) {
	cases := []struct {
		isWorker bool
		from, to string
		want     bool
	}{
		{true, model.HiringPending, model.HiringAccepted, true},
		{true, model.HiringPending, model.HiringRejected, true},
		{true, model.HiringAccepted, model.HiringCompleted, true},
		{true, model.HiringPending, model.HiringCompleted, false},
		{true, model.HiringCompleted, model.HiringPending, false},
		{false, model.HiringPending, model.HiringCancelled, true},
		{false, model.HiringAccepted, model.HiringCancelled, true},
		{false, model.HiringCompleted, model.HiringCancelled, false},
		{false, model.HiringPending, model.HiringAccepted, false},
	}
	for _, c := range cases {
		if got := allowedHiringMove(c.isWorker, c.from, c.to); got != c.want {
			t.Errorf("allowedHiringMove(%v, %q, %q) = %v, want %v", c.isWorker, c.from, c.to, got, c.want)
		}
	}
}
