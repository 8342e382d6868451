package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/homeview/internal/app"
	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/booking"
	"github.com/evcraddock/homeview/internal/property"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertySummary prints a single property in text format.
func printPropertySummary(p *property.Property) {
	fmt.Printf("Property #%d\n", p.ID)
	fmt.Printf("  Title:    %s\n", p.Title)
	fmt.Printf("  Location: %s\n", formatLocation(p.Location))
	fmt.Printf("  Price:    $%s\n", formatPrice(p.Price))
	if p.PricePerMonth > 0 {
		fmt.Printf("  Monthly:  $%s\n", formatPrice(p.PricePerMonth))
	}
	fmt.Printf("  Type:     %s / %s\n", p.Type, p.PropertyType)
	fmt.Printf("  Status:   %s\n", p.Status)
	if p.Bedrooms > 0 {
		fmt.Printf("  Beds:     %d\n", p.Bedrooms)
	}
	if p.Bathrooms > 0 {
		fmt.Printf("  Baths:    %g\n", p.Bathrooms)
	}
	if p.Area > 0 {
		fmt.Printf("  Area:     %g sqft\n", p.Area)
	}
	if p.YearBuilt > 0 {
		fmt.Printf("  Built:    %d\n", p.YearBuilt)
	}
	if p.AvailableFrom != "" {
		fmt.Printf("  Open:     %s\n", p.AvailableFrom)
	}
	if p.Rating > 0 {
		fmt.Printf("  Rating:   %s\n", formatRating(p.Rating))
	}
	if img := p.PrimaryImage(); img != "" {
		fmt.Printf("  Image:    %s\n", img)
	}
	if len(p.Amenities) > 0 {
		fmt.Printf("  Has:      %s\n", strings.Join(p.Amenities, ", "))
	}
	if p.Description != "" {
		fmt.Printf("\n  %s\n", p.Description)
	}
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(props []property.Property) error {
	if len(props) == 0 {
		fmt.Println("No properties found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tCITY\tSTATUS\tPRICE\tBED\tBATH\tRATING"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t----\t------\t-----\t---\t----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		beds := "-"
		if p.Bedrooms > 0 {
			beds = fmt.Sprintf("%d", p.Bedrooms)
		}
		baths := "-"
		if p.Bathrooms > 0 {
			baths = fmt.Sprintf("%g", p.Bathrooms)
		}
		rating := "-"
		if p.Rating > 0 {
			rating = formatRating(p.Rating)
		}

		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Title, 32), p.Location.City, p.Status, formatPrice(p.Price), beds, baths, rating); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d properties\n", len(props))
	return nil
}

// printBookingTable prints bookings as a formatted table.
func printBookingTable(bookings []booking.Booking) error {
	if len(bookings) == 0 {
		fmt.Println("No bookings.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tPROPERTY\tUSER\tDATE\tSTATUS\tNOTES"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t--------\t----\t----\t------\t-----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, b := range bookings {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\n",
			b.ID, b.PropertyID, b.UserID, b.Date, b.Status.Label(), truncate(b.Notes, 40)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return w.Flush()
}

// printBooking prints one booking after a change.
func printBooking(verb string, b *booking.Booking) {
	fmt.Printf("Booking #%d %s: property #%d on %s (%s)\n", b.ID, verb, b.PropertyID, b.Date, b.Status.Label())
	if b.Notes != "" {
		fmt.Printf("  %s\n", b.Notes)
	}
}

// printSession prints the signed-in user.
func printSession(s *auth.Session) {
	fmt.Printf("User:    #%d %s <%s>\n", s.ID, s.Name, s.Email)
	fmt.Printf("Role:    %s\n", s.Role)
	fmt.Printf("Session: %s (since %s)\n", s.SessionID, s.StartedAt.Format("2006-01-02 15:04"))
}

// printDashboard prints the role-specific overview.
func printDashboard(d *app.Dashboard) error {
	fmt.Printf("%s (%s)\n\n", d.User.Name, d.User.Role)

	if err := printPropertyTable(d.Properties); err != nil {
		return err
	}
	if d.AverageRating > 0 {
		fmt.Printf("Average rating: %s\n", formatRating(d.AverageRating))
	}

	fmt.Printf("\nBookings: %d total, %d pending, %d confirmed, %d cancelled\n",
		d.Stats.Total, d.Stats.Pending, d.Stats.Confirmed, d.Stats.Cancelled)
	if d.TotalUsers > 0 {
		fmt.Printf("Users: %d\n", d.TotalUsers)
	}

	fmt.Println("\nUpcoming:")
	if err := printBookingTable(d.Upcoming); err != nil {
		return err
	}
	fmt.Println("\nPast:")
	return printBookingTable(d.Past)
}

func formatLocation(l property.Location) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{l.Address, l.City, l.State} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// formatPrice formats a dollar amount as a whole-dollar string with commas.
func formatPrice(dollars float64) string {
	s := fmt.Sprintf("%d", int64(math.Round(dollars)))

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}

// formatRating returns a five-star representation of a 0-5 rating,
// followed by the exact value.
func formatRating(rating float64) string {
	stars := int(math.Round(rating))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return fmt.Sprintf("%s%s %.1f", strings.Repeat("★", stars), strings.Repeat("☆", 5-stars), rating)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
