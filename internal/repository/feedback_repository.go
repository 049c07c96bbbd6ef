package repository

import (
	"context"
	"database/sql"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// FeedbackRepo stores user-submitted reports for the admin queue.
type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a report with status pending.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) (uint64, error) {
	const q = `INSERT INTO feedback (user_id, feedback_type, subject, description, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.UserID, f.Type, f.Subject, f.Description, model.FeedbackPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns reports newest first, optionally restricted to one
// status.
func (r *FeedbackRepo) List(ctx context.Context, status string, limit, offset int) ([]model.Feedback, error) {
	q := `SELECT id, user_id, feedback_type, subject, description, status, admin_response, created_at, updated_at FROM feedback`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var f model.Feedback
		var resp sql.NullString
		var updated sql.NullTime
		if err := rows.Scan(&f.ID, &f.UserID, &f.Type, &f.Subject, &f.Description,
			&f.Status, &resp, &f.CreatedAt, &updated); err != nil {
			return nil, err
		}
		if resp.Valid {
			f.AdminResponse = &resp.String
		}
		if updated.Valid {
			t := updated.Time
			f.UpdatedAt = &t
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetStatus records an admin decision with an optional response.
func (r *FeedbackRepo) SetStatus(ctx context.Context, id uint64, status string, response *string) error {
	const q = `UPDATE feedback SET status = ?, admin_response = COALESCE(?, admin_response), updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, response, id)
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
