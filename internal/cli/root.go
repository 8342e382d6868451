// Package cli defines the cobra command tree for homeview.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/homeview/internal/client"
)

var (
	flagFormat string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hv",
		Short:         "Browse listings and book viewings",
		Long:          "A real-estate catalog. Search listings, book viewings and manage your account from the CLI, or run the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "server config file (default: ~/.config/hv/server.yaml)")

	root.AddCommand(
		newSearchCmd(),
		newFeaturedCmd(),
		newShowCmd(),
		newBookCmd(),
		newCancelCmd(),
		newConfirmCmd(),
		newBookingsCmd(),
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newDashboardCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the homeview API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// parseID parses a positive numeric identifier from a command argument.
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, s)
	}
	return id, nil
}
