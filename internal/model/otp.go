package model

import "time"

// Contact channels an OTP can be issued on.
const (
	ContactPhone = "phone"
	ContactEmail = "email"
)

// OTP is a one-time verification code bound to a contact address.
// At most one live code exists per (contact, contact_type) pair,
// issuing a new one replaces any prior row.
//
// This struct corresponds to a row in the `otps` table.
type OTP struct {
	ID          uint64    // otps.id
	Contact     string    // otps.contact
	ContactType string    // otps.contact_type (phone|email)
	Code        string    // otps.otp_code (6 digits)
	Expiry      time.Time // otps.expiry
	CreatedAt   time.Time // otps.created_at
}
