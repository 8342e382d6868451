// Package property provides the property domain model, the immutable catalog
// and the filter engine that searches it.
package property

import "slices"

// Sale/rent status values used by the seed catalog.
const (
	StatusForSale = "For Sale"
	StatusForRent = "For Rent"
)

// Category values.
const (
	CategoryResidential = "Residential"
	CategoryCommercial  = "Commercial"
)

// Location is where a property is.
type Location struct {
	Address string  `json:"address" yaml:"address"`
	City    string  `json:"city" yaml:"city"`
	State   string  `json:"state" yaml:"state"`
	Zip     string  `json:"zip" yaml:"zip"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
}

// Property is a listing in the catalog. It is never modified after load.
type Property struct {
	ID            int64    `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Price         float64  `json:"price" yaml:"price"`
	PricePerMonth float64  `json:"price_per_month" yaml:"price_per_month"`
	Area          float64  `json:"area" yaml:"area"`
	Bedrooms      int      `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms" yaml:"bathrooms"`
	Location      Location `json:"location" yaml:"location"`
	Type          string   `json:"type" yaml:"type"`
	PropertyType  string   `json:"property_type" yaml:"property_type"`
	Status        string   `json:"status" yaml:"status"`
	Featured      bool     `json:"featured" yaml:"featured"`
	Images        []string `json:"images" yaml:"images"`
	Amenities     []string `json:"amenities" yaml:"amenities"`
	Rating        float64  `json:"rating" yaml:"rating"`
	Description   string   `json:"description" yaml:"description"`
	YearBuilt     int      `json:"year_built" yaml:"year_built"`
	AvailableFrom string   `json:"available_from" yaml:"available_from"` // YYYY-MM-DD
	Tags          []string `json:"tags" yaml:"tags"`
}

// Clone returns a deep copy so callers can't reach the catalog's slices.
func (p Property) Clone() Property {
	p.Images = slices.Clone(p.Images)
	p.Amenities = slices.Clone(p.Amenities)
	p.Tags = slices.Clone(p.Tags)
	return p
}

// PrimaryImage returns the first image reference, or "" if there are none.
func (p Property) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func cloneAll(props []Property) []Property {
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p.Clone()
	}
	return out
}
