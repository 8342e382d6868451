package booking

import "time"

// Stats counts bookings by status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

// Summarize counts bookings by status.
func Summarize(bookings []Booking) Stats {
	s := Stats{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case StatusPending:
			s.Pending++
		case StatusConfirmed:
			s.Confirmed++
		case StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// Partition splits bookings into upcoming (on or after today and not
// cancelled) and past (before today, or cancelled). Order is preserved.
// Bookings with unparseable dates count as past.
func Partition(bookings []Booking, today time.Time) (upcoming, past []Booking) {
	day := today.Format(DateLayout)
	upcoming = make([]Booking, 0)
	past = make([]Booking, 0)
	for _, b := range bookings {
		if _, err := ParseDate(b.Date); err == nil && b.Date >= day && b.Status != StatusCancelled {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past
}
