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

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := NewBookingService(db, repository.NewEquipmentRepo(db), repository.NewBookingRepo(db), nil)
	return svc, mock
}

func equipmentRows(id, ownerID uint64, pricePerDay float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "category", "description", "price_per_day",
		"location", "image_url", "availability_status", "is_approved",
		"rejection_reason", "reviewed_at", "created_at",
	}).AddRow(id, ownerID, "Tractor", "tractor", nil, pricePerDay, nil, nil, status, true, nil, nil, time.Now())
}

func bookingRows(id, equipmentID, renterID uint64, status string, total float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "equipment_id", "renter_id", "start_date", "end_date",
		"total_price", "status", "notes", "created_at",
	}).AddRow(id, equipmentID, renterID, "2025-06-01", "2025-06-03", total, status, nil, time.Now())
}

func TestBookingCreateTotalPrice(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(equipmentRows(7, 2, 100, model.AvailabilityAvailable))
	mock.ExpectExec(`UPDATE equipment SET availability_status = \? WHERE id = \? AND availability_status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO equipment_bookings`).
		WithArgs(uint64(7), uint64(9), "2025-06-01", "2025-06-03", 300.0, model.BookingPending, nil).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectCommit()

	b, err := svc.Create(context.Background(), 9, 7, "2025-06-01", "2025-06-03", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalPrice != 300 {
		t.Errorf("TotalPrice = %v, want 300", b.TotalPrice)
	}
	if b.Status != model.BookingPending {
		t.Errorf("Status = %q, want pending", b.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBookingCreateNotAvailable(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment WHERE id = \? FOR UPDATE`).
		WillReturnRows(equipmentRows(7, 2, 100, model.AvailabilityBooked))
	// conditional flip misses: the row is no longer 'available'
	mock.ExpectExec(`UPDATE equipment SET availability_status = \? WHERE id = \? AND availability_status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 7, "2025-06-01", "2025-06-03", nil)
	if !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBookingCreateOwnListing(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment WHERE id = \? FOR UPDATE`).
		WillReturnRows(equipmentRows(7, 9, 100, model.AvailabilityAvailable))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 7, "2025-06-01", "2025-06-03", nil)
	if !errors.Is(err, ErrSelfDealing) {
		t.Fatalf("err = %v, want ErrSelfDealing", err)
	}
}

func TestBookingCreateInvalidRange(t *testing.T) {
	svc, _ := newBookingService(t)

	// end precedes start: rejected before any SQL runs
	_, err := svc.Create(context.Background(), 9, 7, "2025-06-03", "2025-06-01", nil)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestBookingTransitionNotOwner(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment_bookings WHERE id = \? FOR UPDATE`).
		WillReturnRows(bookingRows(41, 7, 9, model.BookingPending, 300))
	mock.ExpectQuery(`FROM equipment WHERE id = \? FOR UPDATE`).
		WillReturnRows(equipmentRows(7, 2, 100, model.AvailabilityBooked))
	mock.ExpectRollback()

	// actor 5 is neither owner nor renter
	_, err := svc.Transition(context.Background(), 5, 41, model.BookingConfirmed)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestBookingTransitionRejectedFreesEquipment(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment_bookings WHERE id = \? FOR UPDATE`).
		WillReturnRows(bookingRows(41, 7, 9, model.BookingPending, 300))
	mock.ExpectQuery(`FROM equipment WHERE id = \? FOR UPDATE`).
		WillReturnRows(equipmentRows(7, 2, 100, model.AvailabilityBooked))
	mock.ExpectExec(`UPDATE equipment_bookings SET status = \? WHERE id = \?`).
		WithArgs(model.BookingRejected, uint64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE equipment SET availability_status = \? WHERE id = \?`).
		WithArgs(model.AvailabilityAvailable, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.Transition(context.Background(), 2, 41, model.BookingRejected)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if b.Status != model.BookingRejected {
		t.Errorf("Status = %q, want rejected", b.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBookingTransitionConfirmedKeepsBooked(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment_bookings WHERE id = \? FOR UPDATE`).
		WillReturnRows(bookingRows(41, 7, 9, model.BookingPending, 300))
	mock.ExpectQuery(`FROM equipment WHERE id = \? FOR UPDATE`).
		WillReturnRows(equipmentRows(7, 2, 100, model.AvailabilityBooked))
	mock.ExpectExec(`UPDATE equipment_bookings SET status = \? WHERE id = \?`).
		WithArgs(model.BookingConfirmed, uint64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE equipment SET availability_status = \? WHERE id = \?`).
		WithArgs(model.AvailabilityBooked, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := svc.Transition(context.Background(), 2, 41, model.BookingConfirmed); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBookingTransitionUnknownStatus(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.Transition(context.Background(), 2, 41, "archived")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestBookingDeleteRestoresAvailability(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM equipment_bookings WHERE id = \? FOR UPDATE`).
		WillReturnRows(bookingRows(41, 7, 9, model.BookingPending, 300))
	mock.ExpectExec(`DELETE FROM equipment_bookings WHERE id = \?`).
		WithArgs(uint64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE equipment SET availability_status = \? WHERE id = \?`).
		WithArgs(model.AvailabilityAvailable, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Delete(context.Background(), 9, 41); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
