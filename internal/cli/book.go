package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/homeview/internal/booking"
)

func newBookCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "book <property-id> <date>",
		Short: "Book a viewing",
		Long: `Book a viewing of a property for the signed-in user.

Date format: YYYY-MM-DD. A property can only have one pending or
confirmed booking per date.

Examples:
  hv book 7 2025-06-01
  hv book 7 2025-06-01 --notes "after 5pm please"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBook(args, notes)
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "optional notes for the seller")

	return cmd
}

func runBook(args []string, notes string) error {
	id, err := parseID("property", args[0])
	if err != nil {
		return err
	}
	if _, err := booking.ParseDate(args[1]); err != nil {
		return err
	}

	b, err := newAPIClient().CreateBooking(id, args[1], notes)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(b)
	}

	printBooking("requested", b)
	return nil
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Long:  "Cancel a booking and free its slot. Cancelling twice is a no-op.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(args[0], "cancelled")
		},
	}
}

func newConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <booking-id>",
		Short: "Confirm a pending booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(args[0], "confirmed")
		},
	}
}

func runTransition(arg, verb string) error {
	id, err := parseID("booking", arg)
	if err != nil {
		return err
	}

	c := newAPIClient()

	var b *booking.Booking
	if verb == "cancelled" {
		b, err = c.CancelBooking(id)
	} else {
		b, err = c.ConfirmBooking(id)
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(b)
	}

	printBooking(verb, b)
	return nil
}
