package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/homeview/internal/apperr"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the server and the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runWhoami() error {
	serverURL := getServerURL()

	s, err := newAPIClient().Session()
	if errors.Is(err, apperr.ErrAuth) {
		if isJSON() {
			return printJSON(map[string]any{"server": serverURL, "session": nil})
		}
		fmt.Printf("Server:  %s\n", serverURL)
		fmt.Println("Not signed in.")
		fmt.Println("\nRun 'hv login <email>' to sign in.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("contacting %s: %w", serverURL, err)
	}

	if isJSON() {
		return printJSON(map[string]any{"server": serverURL, "session": s})
	}

	fmt.Printf("Server:  %s\n", serverURL)
	printSession(s)
	return nil
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the signed-in user's overview",
		Long:  "Buyers see saved listings and their bookings, sellers see their listings and the bookings on them, admins see everything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newAPIClient().Dashboard()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(d)
			}
			return printDashboard(d)
		},
	}
}
