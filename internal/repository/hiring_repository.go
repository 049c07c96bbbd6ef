package repository

import (
	"context"
	"database/sql"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// HiringRepo provides access to worker hirings.
type HiringRepo struct {
	db *sql.DB
}

func NewHiringRepo(db *sql.DB) *HiringRepo { return &HiringRepo{db: db} }

const hiringCols = `id, worker_profile_id, farmer_id, start_date, end_date, total_payment, work_description, status, created_at`

func scanHiring(sc interface{ Scan(...interface{}) error }) (*model.Hiring, error) {
	var h model.Hiring
	var desc sql.NullString
	err := sc.Scan(&h.ID, &h.WorkerProfileID, &h.FarmerID, &h.StartDate, &h.EndDate,
		&h.TotalPayment, &desc, &h.Status, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		h.WorkDescription = &desc.String
	}
	return &h, nil
}

// CreateTx inserts a hiring and fills in its generated ID.
func (r *HiringRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.Hiring) error {
	const q = `INSERT INTO worker_hirings
		(worker_profile_id, farmer_id, start_date, end_date, total_payment, work_description, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, h.WorkerProfileID, h.FarmerID, h.StartDate, h.EndDate,
		h.TotalPayment, h.WorkDescription, h.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID returns sql.ErrNoRows when the hiring does not exist.
func (r *HiringRepo) GetByID(ctx context.Context, id uint64) (*model.Hiring, error) {
	const q = `SELECT ` + hiringCols + ` FROM worker_hirings WHERE id = ?`
	return scanHiring(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx reads a hiring inside tx with a row lock.
func (r *HiringRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Hiring, error) {
	const q = `SELECT ` + hiringCols + ` FROM worker_hirings WHERE id = ? FOR UPDATE`
	return scanHiring(tx.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx writes the hiring status inside tx.
func (r *HiringRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE worker_hirings SET status = ? WHERE id = ?`, status, id)
	return err
}

// ListByFarmer returns a farmer's hirings newest first.
func (r *HiringRepo) ListByFarmer(ctx context.Context, farmerID uint64) ([]model.Hiring, error) {
	const q = `SELECT ` + hiringCols + ` FROM worker_hirings WHERE farmer_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, farmerID)
}

// ListByWorkerProfile returns the engagements against one profile,
// newest first.
func (r *HiringRepo) ListByWorkerProfile(ctx context.Context, profileID uint64) ([]model.Hiring, error) {
	const q = `SELECT ` + hiringCols + ` FROM worker_hirings WHERE worker_profile_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, profileID)
}

func (r *HiringRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Hiring, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hiring
	for rows.Next() {
		h, err := scanHiring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// HasCompleted reports whether farmerID has at least one completed
// hiring against the worker profile. Gates worker reviews.
func (r *HiringRepo) HasCompleted(ctx context.Context, farmerID, profileID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM worker_hirings
		WHERE farmer_id = ? AND worker_profile_id = ? AND status = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, farmerID, profileID, model.HiringCompleted).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the total number of hirings.
func (r *HiringRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM worker_hirings`).Scan(&n)
	return n, err
}
