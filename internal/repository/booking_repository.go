package repository

import (
	"context"
	"database/sql"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// BookingRepo provides access to equipment bookings. Lifecycle writes
// happen inside transactions owned by the service layer, so that a
// status change and the equipment availability it implies land
// together.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `id, equipment_id, renter_id, start_date, end_date, total_price, status, notes, created_at`

func scanBooking(sc interface{ Scan(...interface{}) error }) (*model.Booking, error) {
	var b model.Booking
	var notes sql.NullString
	err := sc.Scan(&b.ID, &b.EquipmentID, &b.RenterID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &b.Status, &notes, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	return &b, nil
}

// CreateTx inserts a booking and fills in its generated ID.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO equipment_bookings
		(equipment_id, renter_id, start_date, end_date, total_price, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.EquipmentID, b.RenterID, b.StartDate, b.EndDate,
		b.TotalPrice, b.Status, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns sql.ErrNoRows when the booking does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM equipment_bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx reads a booking inside tx with a row lock.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM equipment_bookings WHERE id = ? FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx writes the booking status inside tx.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE equipment_bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteTx removes a booking row inside tx.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM equipment_bookings WHERE id = ?`, id)
	return err
}

// ListByRenter returns a renter's bookings newest first.
func (r *BookingRepo) ListByRenter(ctx context.Context, renterID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM equipment_bookings WHERE renter_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, renterID)
}

// ListByOwner returns bookings against any equipment the owner has
// listed, newest first.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	const q = `SELECT b.id, b.equipment_id, b.renter_id, b.start_date, b.end_date,
		b.total_price, b.status, b.notes, b.created_at
		FROM equipment_bookings b
		JOIN equipment e ON e.id = b.equipment_id
		WHERE e.owner_id = ? ORDER BY b.created_at DESC`
	return r.list(ctx, q, ownerID)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Count returns the total number of bookings.
func (r *BookingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment_bookings`).Scan(&n)
	return n, err
}
