// Package service implements the marketplace rules: booking and
// hiring lifecycles, availability consistency, review gating and the
// OTP store. Handlers stay thin and translate the sentinels defined
// here into HTTP responses.
package service

import "errors"

var (
	// ErrNotFound covers any referenced record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor lacks the standing an
	// operation requires, such as transitioning someone else's booking.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a status change is not
	// permitted from the record's current state for this actor.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotAvailable is returned when the equipment or worker is
	// already booked or under maintenance.
	ErrNotAvailable = errors.New("not available")

	// ErrSelfDealing is returned when a user tries to book their own
	// listing or hire themselves.
	ErrSelfDealing = errors.New("cannot transact with own listing")

	// ErrInvalidRange is returned for malformed dates or a range with
	// a non-positive day count.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
