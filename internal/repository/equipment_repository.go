package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// EquipmentRepo provides access to equipment listings and their
// moderation state. Methods with a Tx suffix run inside a caller
// supplied transaction; the caller commits or rolls back.
type EquipmentRepo struct {
	db *sql.DB
}

func NewEquipmentRepo(db *sql.DB) *EquipmentRepo { return &EquipmentRepo{db: db} }

const equipmentCols = `id, owner_id, name, category, description, price_per_day,
	location, image_url, availability_status, is_approved, rejection_reason, reviewed_at, created_at`

func scanEquipment(sc interface{ Scan(...interface{}) error }) (*model.Equipment, error) {
	var e model.Equipment
	var desc, loc, img, reason sql.NullString
	var reviewedAt sql.NullTime
	err := sc.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Category, &desc, &e.PricePerDay,
		&loc, &img, &e.AvailabilityStatus, &e.IsApproved, &reason, &reviewedAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		e.Description = &desc.String
	}
	if loc.Valid {
		e.Location = &loc.String
	}
	if img.Valid {
		e.ImageURL = &img.String
	}
	if reason.Valid {
		e.RejectionReason = &reason.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		e.ReviewedAt = &t
	}
	return &e, nil
}

// Create inserts a listing. ErrConflict when the owner already has a
// listing with the same name and category.
func (r *EquipmentRepo) Create(ctx context.Context, e *model.Equipment) (uint64, error) {
	const dup = `SELECT COUNT(*) FROM equipment WHERE owner_id = ? AND name = ? AND category = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, dup, e.OwnerID, e.Name, e.Category).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrConflict
	}
	const q = `INSERT INTO equipment
		(owner_id, name, category, description, price_per_day, location, image_url, availability_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	status := e.AvailabilityStatus
	if status == "" {
		status = model.AvailabilityAvailable
	}
	res, err := r.db.ExecContext(ctx, q, e.OwnerID, e.Name, e.Category, e.Description,
		e.PricePerDay, e.Location, e.ImageURL, status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns sql.ErrNoRows when the listing does not exist.
func (r *EquipmentRepo) GetByID(ctx context.Context, id uint64) (*model.Equipment, error) {
	const q = `SELECT ` + equipmentCols + ` FROM equipment WHERE id = ?`
	return scanEquipment(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx reads a listing inside tx with a row lock, so a booking
// decision and the availability flip it leads to see the same state.
func (r *EquipmentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Equipment, error) {
	const q = `SELECT ` + equipmentCols + ` FROM equipment WHERE id = ? FOR UPDATE`
	return scanEquipment(tx.QueryRowContext(ctx, q, id))
}

// List returns approved listings matching the filter, newest first.
func (r *EquipmentRepo) List(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + equipmentCols + ` FROM equipment WHERE is_approved = 1`)
	args := []interface{}{}

	if f.Category != "" {
		b.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	if f.Location != "" {
		b.WriteString(` AND LOWER(location) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.MaxPrice != nil {
		b.WriteString(` AND price_per_day <= ?`)
		args = append(args, *f.MaxPrice)
	}
	if f.AvailableOnly {
		b.WriteString(` AND availability_status = ?`)
		args = append(args, model.AvailabilityAvailable)
	}
	if f.Search != "" {
		b.WriteString(` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`)
		pat := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pat, pat)
	}
	b.WriteString(` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

// ListByOwner returns every listing an owner has, approved or not.
func (r *EquipmentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Equipment, error) {
	const q = `SELECT ` + equipmentCols + ` FROM equipment WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

func collectEquipment(rows *sql.Rows) ([]model.Equipment, error) {
	var out []model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update applies the owner-editable fields. Ownership is enforced in
// the WHERE clause: zero rows affected with an existing listing means
// the caller does not own it.
func (r *EquipmentRepo) Update(ctx context.Context, id, ownerID uint64, u model.EquipmentUpdate) error {
	const q = `UPDATE equipment SET
		name = COALESCE(?, name),
		category = COALESCE(?, category),
		description = COALESCE(?, description),
		price_per_day = COALESCE(?, price_per_day),
		location = COALESCE(?, location),
		image_url = COALESCE(?, image_url),
		availability_status = COALESCE(?, availability_status)
		WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, u.Name, u.Category, u.Description,
		u.PricePerDay, u.Location, u.ImageURL, u.AvailabilityStatus, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return sql.ErrNoRows
		}
		return ErrForbidden
	}
	return nil
}

// Delete removes an owner's listing. Same ownership convention as
// Update.
func (r *EquipmentRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return sql.ErrNoRows
		}
		return ErrForbidden
	}
	return nil
}

// MarkBookedTx flips availability to booked only when the listing is
// still available, and reports whether the flip happened. Running the
// guard as a conditional UPDATE inside tx closes the window where two
// renters could both observe 'available'.
func (r *EquipmentRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	const q = `UPDATE equipment SET availability_status = ? WHERE id = ? AND availability_status = ?`
	res, err := tx.ExecContext(ctx, q, model.AvailabilityBooked, id, model.AvailabilityAvailable)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetAvailabilityTx writes the availability column unconditionally.
// Used when a lifecycle transition re-derives the flag.
func (r *EquipmentRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE equipment SET availability_status = ? WHERE id = ?`, status, id)
	return err
}

// ListPending returns unreviewed listings for the moderation queue.
func (r *EquipmentRepo) ListPending(ctx context.Context) ([]model.Equipment, error) {
	const q = `SELECT ` + equipmentCols + ` FROM equipment
		WHERE is_approved = 0 AND reviewed_at IS NULL ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

// SetApproval records a moderation decision. reason is stored only on
// rejection.
func (r *EquipmentRepo) SetApproval(ctx context.Context, id uint64, approved bool, reason *string) error {
	const q = `UPDATE equipment SET is_approved = ?, rejection_reason = ?, reviewed_at = UTC_TIMESTAMP() WHERE id = ?`
	if approved {
		reason = nil
	}
	res, err := r.db.ExecContext(ctx, q, approved, reason, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Categories returns the known category list.
func (r *EquipmentRepo) Categories(ctx context.Context) ([]model.EquipmentCategory, error) {
	const q = `SELECT id, name, description FROM equipment_categories ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EquipmentCategory
	for rows.Next() {
		var c model.EquipmentCategory
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			c.Description = &desc.String
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the total number of listings.
func (r *EquipmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment`).Scan(&n)
	return n, err
}
