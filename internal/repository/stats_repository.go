package repository

import (
	"context"
	"database/sql"
	"time"
)

// DashboardStats is the admin landing-page aggregate.
type DashboardStats struct {
	Farmers   int `json:"farmers"`
	Workers   int `json:"workers"`
	Renters   int `json:"renters"`
	Equipment int `json:"equipment"`
	Bookings  int `json:"bookings"`
	Hirings   int `json:"hirings"`

	RecentUsers    []RecentUser    `json:"recent_users"`
	RecentListings []RecentListing `json:"recent_listings"`
}

// RecentUser is the trimmed user row shown on the dashboard.
type RecentUser struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentListing is the trimmed equipment row shown on the dashboard.
type RecentListing struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsRepo runs the read-only aggregate queries behind the admin
// dashboard.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Dashboard collects counts and the five most recent signups and
// listings.
func (r *StatsRepo) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats

	counts := []struct {
		q    string
		dest *int
	}{
		{`SELECT COUNT(*) FROM users WHERE role = 'farmer'`, &s.Farmers},
		{`SELECT COUNT(*) FROM users WHERE role = 'worker'`, &s.Workers},
		{`SELECT COUNT(*) FROM users WHERE role = 'renter'`, &s.Renters},
		{`SELECT COUNT(*) FROM equipment`, &s.Equipment},
		{`SELECT COUNT(*) FROM equipment_bookings`, &s.Bookings},
		{`SELECT COUNT(*) FROM worker_hirings`, &s.Hirings},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.q).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, role, created_at FROM users ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u RecentUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		s.RecentUsers = append(s.RecentUsers, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lrows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, created_at FROM equipment ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var l RecentListing
		if err := lrows.Scan(&l.ID, &l.Name, &l.Category, &l.CreatedAt); err != nil {
			return nil, err
		}
		s.RecentListings = append(s.RecentListings, l)
	}
	return &s, lrows.Err()
}
