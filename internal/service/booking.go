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

// Publisher delivers lifecycle events to the broker. Nil disables
// publishing. Delivery failures are ignored by the services: events
// are advisory, the database is the truth.
type Publisher func(ctx context.Context, ev queue.LifecycleEvent) error

// BookingService runs the equipment rental lifecycle. Every write
// path is transactional so a booking row and the availability flag it
// implies can never be observed apart.
type BookingService struct {
	db        *sql.DB
	equipment *repository.EquipmentRepo
	bookings  *repository.BookingRepo
	publish   Publisher
}

func NewBookingService(db *sql.DB, equipment *repository.EquipmentRepo, bookings *repository.BookingRepo, publish Publisher) *BookingService {
	return &BookingService{db: db, equipment: equipment, bookings: bookings, publish: publish}
}

// Create books equipment for a renter over an inclusive date range.
// The total price is price_per_day times the day count, computed once
// here and never recomputed. The availability flip uses a conditional
// update inside the transaction, so two concurrent renters cannot
// both succeed.
func (s *BookingService) Create(ctx context.Context, renterID, equipmentID uint64, startDate, endDate string, notes *string) (*model.Booking, error) {
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

	eq, err := s.equipment.GetByIDTx(ctx, tx, equipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if eq.OwnerID == renterID {
		return nil, ErrSelfDealing
	}

	flipped, err := s.equipment.MarkBookedTx(ctx, tx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, ErrNotAvailable
	}

	b := &model.Booking{
		EquipmentID: equipmentID,
		RenterID:    renterID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalPrice:  eq.PricePerDay * float64(days),
		Status:      model.BookingPending,
		Notes:       notes,
	}
	if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.CreatedAt = time.Now().UTC()

	s.emit(ctx, b, "", model.BookingPending, renterID)
	return b, nil
}

// Transition lets the equipment owner move a booking to any
// recognised status. The graph is deliberately unrestricted on this
// side of the marketplace; availability is re-derived from the new
// status instead of trusting the caller.
func (s *BookingService) Transition(ctx context.Context, actorID, bookingID uint64, newStatus string) (*model.Booking, error) {
	if !model.BookingStatusValid(newStatus) {
		return nil, ErrInvalidTransition
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

	b, err := s.bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	eq, err := s.equipment.GetByIDTx(ctx, tx, b.EquipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if eq.OwnerID != actorID {
		return nil, ErrForbidden
	}

	prev := b.Status
	if err := s.bookings.UpdateStatusTx(ctx, tx, bookingID, newStatus); err != nil {
		return nil, err
	}
	avail := model.AvailabilityAvailable
	if model.BookingOccupies(newStatus) {
		avail = model.AvailabilityBooked
	}
	if err := s.equipment.SetAvailabilityTx(ctx, tx, b.EquipmentID, avail); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.Status = newStatus

	s.emit(ctx, b, prev, newStatus, actorID)
	return b, nil
}

// Delete removes a booking and frees the equipment when the deleted
// record was the one keeping it booked. Only the renter may delete,
// and only before the owner has engaged with it.
func (s *BookingService) Delete(ctx context.Context, actorID, bookingID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if b.RenterID != actorID {
		return ErrForbidden
	}
	if b.Status != model.BookingPending {
		return ErrInvalidTransition
	}

	if err := s.bookings.DeleteTx(ctx, tx, bookingID); err != nil {
		return err
	}
	if err := s.equipment.SetAvailabilityTx(ctx, tx, b.EquipmentID, model.AvailabilityAvailable); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByRenter returns the renter's bookings newest first.
func (s *BookingService) ListByRenter(ctx context.Context, renterID uint64) ([]model.Booking, error) {
	return s.bookings.ListByRenter(ctx, renterID)
}

// ListByOwner returns bookings against the owner's listings.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	return s.bookings.ListByOwner(ctx, ownerID)
}

// Get returns one booking visible to its renter or the listing owner.
func (s *BookingService) Get(ctx context.Context, actorID, bookingID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.RenterID == actorID {
		return b, nil
	}
	eq, err := s.equipment.GetByID(ctx, b.EquipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if eq.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *BookingService) emit(ctx context.Context, b *model.Booking, from, to string, actorID uint64) {
	if s.publish == nil {
		return
	}
	_ = s.publish(ctx, queue.LifecycleEvent{
		Kind:       "booking",
		RecordID:   b.ID,
		SubjectID:  b.EquipmentID,
		ActorID:    actorID,
		FromStatus: from,
		ToStatus:   to,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Amount:     b.TotalPrice,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
