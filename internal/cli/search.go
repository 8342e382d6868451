package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/homeview/internal/property"
)

func newSearchCmd() *cobra.Command {
	var (
		cr       property.Criteria
		minPrice float64
		maxPrice float64
		beds     int
		baths    float64
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings",
		Long: `Search the catalog. Every flag is optional and flags combine with AND.
Text flags match exactly, ignoring case; "all" matches anything.

Examples:
  hv search --city Austin --max-price 500000
  hv search --category Commercial --status "For Rent"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("min-price") {
				cr.MinPrice = &minPrice
			}
			if f.Changed("max-price") {
				cr.MaxPrice = &maxPrice
			}
			if f.Changed("beds") {
				cr.MinBedrooms = &beds
			}
			if f.Changed("baths") {
				cr.MinBathrooms = &baths
			}
			return runSearch(cr)
		},
	}

	cmd.Flags().StringVar(&cr.City, "city", "", "city")
	cmd.Flags().StringVar(&cr.Category, "category", "", "category (Residential|Commercial)")
	cmd.Flags().StringVar(&cr.Status, "status", "", `sale status ("For Sale"|"For Rent")`)
	cmd.Flags().StringVar(&cr.PropertyType, "type", "", "property type (House, Apartment, Office, ...)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().IntVar(&beds, "beds", 0, "minimum bedrooms")
	cmd.Flags().Float64Var(&baths, "baths", 0, "minimum bathrooms")

	return cmd
}

func runSearch(cr property.Criteria) error {
	props, err := newAPIClient().Search(cr)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(props)
	}

	return printPropertyTable(props)
}

func newFeaturedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List featured listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := newAPIClient().Featured()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(props)
			}
			return printPropertyTable(props)
		},
	}
}
