package repository

import (
	"context"
	"database/sql"
	"time"
)

// OTPRepo stores one-time verification codes. At most one live code
// exists per (contact, contact_type) pair.
type OTPRepo struct {
	db *sql.DB
}

func NewOTPRepo(db *sql.DB) *OTPRepo { return &OTPRepo{db: db} }

// Replace removes any prior code for the pair and inserts the new one
// in a single transaction, so a resend can never leave two live codes.
func (r *OTPRepo) Replace(ctx context.Context, contact, contactType, code string, expiry time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM otps WHERE contact = ? AND contact_type = ?`,
		contact, contactType); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO otps (contact, contact_type, otp_code, expiry) VALUES (?, ?, ?, ?)`,
		contact, contactType, code, expiry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Consume deletes the matching unexpired code and reports whether one
// existed. The conditional DELETE makes verification one atomic step,
// so a code can never be accepted twice. Expired rows for the pair
// are purged in the same call regardless of outcome.
func (r *OTPRepo) Consume(ctx context.Context, contact, contactType, code string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM otps WHERE contact = ? AND contact_type = ? AND otp_code = ? AND expiry >= ?`,
		contact, contactType, code, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// Dead rows for the pair serve no purpose once a verify was attempted.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM otps WHERE contact = ? AND contact_type = ? AND expiry < ?`,
		contact, contactType, now); err != nil {
		return false, err
	}
	return n > 0, nil
}
