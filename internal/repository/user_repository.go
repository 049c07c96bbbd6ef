package repository

import (
	"context"
	"database/sql"

	"github.com/prudvivenkat/agriconnect/internal/model"
)

// UserRepo provides access to the users table.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, name, phone, email, password_hash, role, is_verified, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var phone, email sql.NullString
	err := row.Scan(&u.ID, &u.Name, &phone, &email, &u.PasswordHash, &u.Role, &u.IsVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if email.Valid {
		u.Email = &email.String
	}
	return &u, nil
}

// Create inserts a new account and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name string, phone, email *string, passwordHash, role string) (uint64, error) {
	const q = `INSERT INTO users (name, phone, email, password_hash, role) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, phone, email, passwordHash, role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns sql.ErrNoRows when the user does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail returns sql.ErrNoRows when no account uses the address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// GetByPhone returns sql.ErrNoRows when no account uses the number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE phone = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, phone))
}

// ContactTaken reports whether the phone or email is already registered.
func (r *UserRepo) ContactTaken(ctx context.Context, phone, email *string) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE (phone = ? AND phone IS NOT NULL) OR (email = ? AND email IS NOT NULL)`
	var n int
	if err := r.db.QueryRowContext(ctx, q, phone, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkVerified flips is_verified after a successful OTP check.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	const q = `UPDATE users SET is_verified = 1 WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// UpdateProfile changes name, phone and email. Nil fields keep their
// current value.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone, email *string) error {
	const q = `UPDATE users SET
		name = COALESCE(?, name),
		phone = COALESCE(?, phone),
		email = COALESCE(?, email)
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, name, phone, email, id)
	return err
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	const q = `UPDATE users SET password_hash = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, passwordHash, id)
	return err
}

// List returns accounts newest first, optionally restricted to one
// role. Password hashes are not selected.
func (r *UserRepo) List(ctx context.Context, role string, limit, offset int) ([]model.User, error) {
	q := `SELECT id, name, phone, email, role, is_verified, created_at FROM users`
	args := []interface{}{}
	if role != "" {
		q += ` WHERE role = ?`
		args = append(args, role)
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		var phone, email sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &phone, &email, &u.Role, &u.IsVerified, &u.CreatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			u.Phone = &phone.String
		}
		if email.Valid {
			u.Email = &email.String
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountByRole returns the number of accounts holding role.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	const q = `SELECT COUNT(*) FROM users WHERE role = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, role).Scan(&n)
	return n, err
}
