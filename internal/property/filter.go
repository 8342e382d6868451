package property

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/evcraddock/homeview/internal/apperr"
)

// Any is the sentinel value that disables a string criterion, same as "".
const Any = "all"

// Criteria narrows a search. Every field is optional and fields combine with AND.
// String fields match exactly after case folding, with no trimming; "" and
// "all" impose nothing.
// Numeric bounds are inclusive and nil means unconstrained, so a zero bound
// is a real constraint.
type Criteria struct {
	City         string   `json:"city,omitempty"`
	Category     string   `json:"category,omitempty"`
	Status       string   `json:"status,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinBedrooms  *int     `json:"min_bedrooms,omitempty"`
	MinBathrooms *float64 `json:"min_bathrooms,omitempty"`
}

// Search returns the properties in catalog that satisfy c, in their original
// order. It never modifies catalog and always returns a new slice.
func Search(catalog []Property, c Criteria) []Property {
	out := make([]Property, 0, len(catalog))
	for _, p := range catalog {
		if c.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Matches reports whether p satisfies every constraint in c.
func (c Criteria) Matches(p Property) bool {
	if !matchText(c.City, p.Location.City) {
		return false
	}
	if !matchText(c.Category, p.Type) {
		return false
	}
	if !matchText(c.Status, p.Status) {
		return false
	}
	if !matchText(c.PropertyType, p.PropertyType) {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinBedrooms != nil && p.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.MinBathrooms != nil && p.Bathrooms < *c.MinBathrooms {
		return false
	}
	return true
}

// IsEmpty reports whether c imposes no constraint at all.
func (c Criteria) IsEmpty() bool {
	return unset(c.City) && unset(c.Category) && unset(c.Status) && unset(c.PropertyType) &&
		c.MinPrice == nil && c.MaxPrice == nil && c.MinBedrooms == nil && c.MinBathrooms == nil
}

// Key returns a canonical string for c. Criteria that filter identically
// produce the same key.
func (c Criteria) Key() string {
	var b strings.Builder
	for _, s := range []string{c.City, c.Category, c.Status, c.PropertyType} {
		b.WriteString(norm(s))
		b.WriteByte('|')
	}
	b.WriteString(fmtFloat(c.MinPrice))
	b.WriteByte('|')
	b.WriteString(fmtFloat(c.MaxPrice))
	b.WriteByte('|')
	if c.MinBedrooms != nil {
		b.WriteString(strconv.Itoa(*c.MinBedrooms))
	}
	b.WriteByte('|')
	b.WriteString(fmtFloat(c.MinBathrooms))
	return b.String()
}

// ParseCriteria reads criteria from query parameters: city, category, status,
// property_type, min_price, max_price, min_bedrooms, min_bathrooms.
// Absent or empty parameters leave the field unset.
func ParseCriteria(q url.Values) (Criteria, error) {
	c := Criteria{
		City:         strings.TrimSpace(q.Get("city")),
		Category:     strings.TrimSpace(q.Get("category")),
		Status:       strings.TrimSpace(q.Get("status")),
		PropertyType: strings.TrimSpace(q.Get("property_type")),
	}

	var err error
	if c.MinPrice, err = parseFloat(q, "min_price"); err != nil {
		return Criteria{}, err
	}
	if c.MaxPrice, err = parseFloat(q, "max_price"); err != nil {
		return Criteria{}, err
	}
	if c.MinBathrooms, err = parseFloat(q, "min_bathrooms"); err != nil {
		return Criteria{}, err
	}
	if s := strings.TrimSpace(q.Get("min_bedrooms")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Criteria{}, apperr.Invalid("min_bedrooms must be a whole number, got %q", s)
		}
		c.MinBedrooms = &n
	}

	return c, nil
}

// Values is the inverse of ParseCriteria.
func (c Criteria) Values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if !unset(v) {
			q.Set(k, v)
		}
	}
	set("city", c.City)
	set("category", c.Category)
	set("status", c.Status)
	set("property_type", c.PropertyType)
	if c.MinPrice != nil {
		q.Set("min_price", fmtFloat(c.MinPrice))
	}
	if c.MaxPrice != nil {
		q.Set("max_price", fmtFloat(c.MaxPrice))
	}
	if c.MinBedrooms != nil {
		q.Set("min_bedrooms", strconv.Itoa(*c.MinBedrooms))
	}
	if c.MinBathrooms != nil {
		q.Set("min_bathrooms", fmtFloat(c.MinBathrooms))
	}
	return q
}

func matchText(want, got string) bool {
	if unset(want) {
		return true
	}
	return fold(want) == fold(got)
}

func unset(s string) bool {
	return s == "" || fold(s) == Any
}

// fold is the one case mapping used by both matching and cache keys, so two
// criteria share a key only when they select the same properties.
func fold(s string) string {
	return strings.ToLower(s)
}

func norm(s string) string {
	if unset(s) {
		return ""
	}
	return fold(s)
}

func fmtFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseFloat(q url.Values, key string) (*float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, apperr.Invalid("%s must be a number, got %q", key, s)
	}
	return &f, nil
}

// String is used in log lines.
func (c Criteria) String() string {
	if c.IsEmpty() {
		return "all"
	}
	return fmt.Sprintf("{%s}", c.Values().Encode())
}
