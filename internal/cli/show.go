package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show property details",
		Long:  "Show full details for a property, including its bookings.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("property", args[0])
	if err != nil {
		return err
	}

	c := newAPIClient()

	p, err := c.GetProperty(id)
	if err != nil {
		return err
	}
	bookings, err := c.PropertyBookings(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]any{"property": p, "bookings": bookings})
	}

	printPropertySummary(p)
	fmt.Println()
	if len(bookings) > 0 {
		fmt.Printf("Bookings (%d):\n", len(bookings))
		return printBookingTable(bookings)
	}
	fmt.Println("No bookings.")
	return nil
}
