package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// WorkerRepo provides access to worker profiles.
type WorkerRepo struct {
	db *sql.DB
}

func NewWorkerRepo(db *sql.DB) *WorkerRepo { return &WorkerRepo{db: db} }

const workerCols = `id, user_id, skills, experience, daily_rate, location,
	availability, tools_owned, is_approved, rejection_reason, reviewed_at, created_at`

func scanWorker(sc interface{ Scan(...interface{}) error }) (*model.WorkerProfile, error) {
	var w model.WorkerProfile
	var exp, loc, tools, reason sql.NullString
	var reviewedAt sql.NullTime
	err := sc.Scan(&w.ID, &w.UserID, &w.Skills, &exp, &w.DailyRate,
		&loc, &w.Availability, &tools, &w.IsApproved, &reason, &reviewedAt, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	if exp.Valid {
		w.Experience = &exp.String
	}
	if loc.Valid {
		w.Location = &loc.String
	}
	if tools.Valid {
		w.ToolsOwned = &tools.String
	}
	if reason.Valid {
		w.RejectionReason = &reason.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		w.ReviewedAt = &t
	}
	return &w, nil
}

// Create inserts a profile. ErrConflict when the user already has one.
func (r *WorkerRepo) Create(ctx context.Context, w *model.WorkerProfile) (uint64, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM worker_profiles WHERE user_id = ?`, w.UserID).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrConflict
	}
	const q = `INSERT INTO worker_profiles
		(user_id, skills, experience, daily_rate, location, availability, tools_owned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	status := w.Availability
	if status == "" {
		status = model.AvailabilityAvailable
	}
	res, err := r.db.ExecContext(ctx, q, w.UserID, w.Skills, w.Experience,
		w.DailyRate, w.Location, status, w.ToolsOwned)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns sql.ErrNoRows when the profile does not exist.
func (r *WorkerRepo) GetByID(ctx context.Context, id uint64) (*model.WorkerProfile, error) {
	const q = `SELECT ` + workerCols + ` FROM worker_profiles WHERE id = ?`
	return scanWorker(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx reads a profile inside tx with a row lock.
func (r *WorkerRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.WorkerProfile, error) {
	const q = `SELECT ` + workerCols + ` FROM worker_profiles WHERE id = ? FOR UPDATE`
	return scanWorker(tx.QueryRowContext(ctx, q, id))
}

// GetByUserID returns the profile a worker account owns.
func (r *WorkerRepo) GetByUserID(ctx context.Context, userID uint64) (*model.WorkerProfile, error) {
	const q = `SELECT ` + workerCols + ` FROM worker_profiles WHERE user_id = ?`
	return scanWorker(r.db.QueryRowContext(ctx, q, userID))
}

// List returns approved profiles matching the filter, cheapest first.
func (r *WorkerRepo) List(ctx context.Context, f model.WorkerFilter) ([]model.WorkerProfile, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + workerCols + ` FROM worker_profiles WHERE is_approved = 1`)
	args := []interface{}{}

	if f.Skills != "" {
		b.WriteString(` AND LOWER(skills) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Skills)+"%")
	}
	if f.Location != "" {
		b.WriteString(` AND LOWER(location) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.MaxRate != nil {
		b.WriteString(` AND daily_rate <= ?`)
		args = append(args, *f.MaxRate)
	}
	if f.ToolsOwned != "" {
		b.WriteString(` AND LOWER(tools_owned) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.ToolsOwned)+"%")
	}
	if f.AvailableOnly {
		b.WriteString(` AND availability = ?`)
		args = append(args, model.AvailabilityAvailable)
	}
	b.WriteString(` ORDER BY daily_rate ASC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkers(rows)
}

func collectWorkers(rows *sql.Rows) ([]model.WorkerProfile, error) {
	var out []model.WorkerProfile
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// Update applies the worker-editable fields to the profile owned by
// userID.
func (r *WorkerRepo) Update(ctx context.Context, userID uint64, u model.WorkerProfileUpdate) error {
	const q = `UPDATE worker_profiles SET
		skills = COALESCE(?, skills),
		experience = COALESCE(?, experience),
		daily_rate = COALESCE(?, daily_rate),
		location = COALESCE(?, location),
		tools_owned = COALESCE(?, tools_owned)
		WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, q, u.Skills, u.Experience, u.DailyRate, u.Location, u.ToolsOwned, userID)
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

// MarkBookedTx flips availability to booked only when the profile is
// still available, and reports whether the flip happened.
func (r *WorkerRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	const q = `UPDATE worker_profiles SET availability = ? WHERE id = ? AND availability = ?`
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
func (r *WorkerRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE worker_profiles SET availability = ? WHERE id = ?`, status, id)
	return err
}

// ListPending returns unreviewed profiles for the moderation queue.
func (r *WorkerRepo) ListPending(ctx context.Context) ([]model.WorkerProfile, error) {
	const q = `SELECT ` + workerCols + ` FROM worker_profiles
		WHERE is_approved = 0 AND reviewed_at IS NULL ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkers(rows)
}

// SetApproval records a moderation decision on a profile.
func (r *WorkerRepo) SetApproval(ctx context.Context, id uint64, approved bool, reason *string) error {
	const q = `UPDATE worker_profiles SET is_approved = ?, rejection_reason = ?, reviewed_at = UTC_TIMESTAMP() WHERE id = ?`
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
