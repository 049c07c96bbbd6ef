package service

import "time"

const dateLayout = "2006-01-02"

// DaysInclusive returns the day count of [start, end] counting both
// endpoints, so a single-day job costs one day. ErrInvalidRange on
// malformed dates or when end precedes start.
func DaysInclusive(start, end string) (int, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, ErrInvalidRange
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, ErrInvalidRange
	}
	days := int(e.Sub(s).Hours()/24) + 1
	if days <= 0 {
		return 0, ErrInvalidRange
	}
	return days, nil
}
