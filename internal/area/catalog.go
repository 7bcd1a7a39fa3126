// Package area decodes the area catalog and recovers hunt anchors from
// area names.
package area

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// UnknownName is reported for area ids missing from the catalog.
const UnknownName = "Unknown"

type xmlAreaList struct {
	XMLName xml.Name  `xml:"areas"`
	Areas   []xmlArea `xml:"area"`
}

type xmlArea struct {
	ID   uint32 `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// Definition is one catalog entry.
type Definition struct {
	ID   uint32
	Name string
}

// Catalog holds areas by id and keeps document order.
type Catalog struct {
	byID       map[uint32]Definition
	order      []uint32
	duplicates []uint32
}

// NewCatalog builds a catalog from definitions in order. A repeated id keeps
// its first position and takes the later name.
func NewCatalog(defs []Definition) *Catalog {
	c := &Catalog{byID: make(map[uint32]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := c.byID[d.ID]; dup {
			c.duplicates = append(c.duplicates, d.ID)
		} else {
			c.order = append(c.order, d.ID)
		}
		c.byID[d.ID] = d
	}
	return c
}

// ReadFile decodes the catalog at path.
func ReadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening areas %s: %w", path, err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing areas %s: %w", path, err)
	}
	return c, nil
}

// Decode parses an <areas> document.
func Decode(r io.Reader) (*Catalog, error) {
	var list xmlAreaList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	defs := make([]Definition, 0, len(list.Areas))
	for _, a := range list.Areas {
		defs = append(defs, Definition{ID: a.ID, Name: a.Name})
	}
	return NewCatalog(defs), nil
}

// Get returns the definition for id.
func (c *Catalog) Get(id uint32) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	d, ok := c.byID[id]
	return d, ok
}

// Name returns the area name or UnknownName.
func (c *Catalog) Name(id uint32) string {
	if d, ok := c.Get(id); ok {
		return d.Name
	}
	return UnknownName
}

// Order returns area ids in document order.
func (c *Catalog) Order() []uint32 {
	if c == nil {
		return nil
	}
	return c.order
}

// Len returns the number of distinct ids.
func (c *Catalog) Len() int {
	return len(c.Order())
}

// Duplicates returns ids that appeared more than once.
func (c *Catalog) Duplicates() []uint32 {
	if c == nil {
		return nil
	}
	return c.duplicates
}
