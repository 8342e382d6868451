package app

import (
	"cmp"
	"slices"

	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/booking"
	"github.com/evcraddock/homeview/internal/property"
)

// Dashboard is the signed-in user's overview.
//
// Buyers see their saved properties and their own bookings. Sellers see their
// listings and the bookings made on them. Admins see everything.
type Dashboard struct {
	User          auth.Session        `json:"user"`
	Properties    []property.Property `json:"properties"`
	Upcoming      []booking.Booking   `json:"upcoming"`
	Past          []booking.Booking   `json:"past"`
	Stats         booking.Stats       `json:"stats"`
	AverageRating float64             `json:"average_rating"`
	TotalUsers    int                 `json:"total_users,omitempty"`
}

// Dashboard builds the overview for the current session.
func (c *Core) Dashboard() (Dashboard, error) {
	s, err := c.Session()
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{User: s}
	var bookings []booking.Booking

	switch s.Role {
	case auth.RoleSeller:
		d.Properties = c.catalog.ByIDs(s.ListedProperties)
		for _, p := range d.Properties {
			bookings = append(bookings, c.ledger.ListByProperty(p.ID)...)
		}
		slices.SortStableFunc(bookings, func(a, b booking.Booking) int {
			return cmp.Compare(a.ID, b.ID)
		})
	case auth.RoleAdmin:
		d.Properties = c.catalog.All()
		bookings = c.ledger.All()
		d.TotalUsers = c.sessions.Directory().Len()
	default:
		d.Properties = c.catalog.ByIDs(s.SavedProperties)
		bookings = c.ledger.ListByUser(s.ID)
	}

	d.Upcoming, d.Past = booking.Partition(bookings, c.now())
	d.Stats = booking.Summarize(bookings)
	d.AverageRating = averageRating(d.Properties)
	return d, nil
}

func averageRating(props []property.Property) float64 {
	if len(props) == 0 {
		return 0
	}
	var sum float64
	for _, p := range props {
		sum += p.Rating
	}
	return sum / float64(len(props))
}
