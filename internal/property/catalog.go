package property

import (
	"fmt"

	"github.com/evcraddock/homeview/internal/apperr"
)

// Catalog is the read-only set of properties loaded at start.
// All methods are safe for concurrent use because nothing mutates it.
type Catalog struct {
	props []Property
	index map[int64]int
}

// NewCatalog builds a catalog. The only validation is a unique ID per record.
func NewCatalog(props []Property) (*Catalog, error) {
	c := &Catalog{
		props: make([]Property, 0, len(props)),
		index: make(map[int64]int, len(props)),
	}
	for _, p := range props {
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate property id %d", p.ID)
		}
		c.index[p.ID] = len(c.props)
		c.props = append(c.props, p.Clone())
	}
	return c, nil
}

// Len returns the number of properties.
func (c *Catalog) Len() int { return len(c.props) }

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id int64) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the property with the given ID.
func (c *Catalog) Get(id int64) (Property, error) {
	i, ok := c.index[id]
	if !ok {
		return Property{}, apperr.NotFound("property", id)
	}
	return c.props[i].Clone(), nil
}

// All returns every property in load order.
func (c *Catalog) All() []Property {
	return cloneAll(c.props)
}

// Featured returns the featured properties in load order.
func (c *Catalog) Featured() []Property {
	out := make([]Property, 0)
	for _, p := range c.props {
		if p.Featured {
			out = append(out, p.Clone())
		}
	}
	return out
}

// ByIDs returns the properties whose IDs are listed, in catalog order.
// Unknown IDs are skipped.
func (c *Catalog) ByIDs(ids []int64) []Property {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Property, 0, len(ids))
	for _, p := range c.props {
		if want[p.ID] {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Search runs the filter engine over the catalog.
func (c *Catalog) Search(cr Criteria) []Property {
	return Search(c.props, cr)
}
