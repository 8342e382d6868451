package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/homeview/internal/booking"
)

func newBookingsCmd() *cobra.Command {
	var (
		propertyID string
		upcoming   bool
		past       bool
	)

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List bookings",
		Long:  "List the signed-in user's bookings, or every booking on a property with --property.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if upcoming && past {
				return fmt.Errorf("--upcoming and --past are mutually exclusive")
			}
			return runBookings(propertyID, upcoming, past, time.Now())
		},
	}

	cmd.Flags().StringVar(&propertyID, "property", "", "list bookings for this property")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "only bookings from today on")
	cmd.Flags().BoolVar(&past, "past", false, "only bookings before today")

	return cmd
}

func runBookings(propertyID string, upcoming, past bool, now time.Time) error {
	c := newAPIClient()

	var (
		list []booking.Booking
		err  error
	)
	if propertyID != "" {
		id, perr := parseID("property", propertyID)
		if perr != nil {
			return perr
		}
		list, err = c.PropertyBookings(id)
	} else {
		s, serr := c.Session()
		if serr != nil {
			return fmt.Errorf("%w (run 'hv login' first)", serr)
		}
		list, err = c.UserBookings(s.ID)
	}
	if err != nil {
		return err
	}

	if upcoming || past {
		up, down := booking.Partition(list, now)
		if upcoming {
			list = up
		} else {
			list = down
		}
	}

	if isJSON() {
		return printJSON(list)
	}

	return printBookingTable(list)
}
