// Package geo reads, normalizes, reprojects and writes polygon shapefiles.
package geo

import (
	"slices"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Feature is one shapefile record: text attributes plus a polygon geometry.
type Feature struct {
	Attrs    map[string]string
	Geometry *geom.MultiPolygon
}

// Collection is an in-memory shapefile. Transforms return new collections and
// never modify their input.
type Collection struct {
	Name     string   // source file base name without extension
	Fields   []string // attribute columns in output order
	Features []Feature
	CRS      *CRS // nil when the source declared none
}

// HasField reports whether the collection has an attribute column named name.
func (c *Collection) HasField(name string) bool {
	return slices.Contains(c.Fields, name)
}

// Len returns the number of features.
func (c *Collection) Len() int { return len(c.Features) }

// clone copies the collection header with an empty feature slice.
func (c *Collection) clone() *Collection {
	return &Collection{
		Name:   c.Name,
		Fields: slices.Clone(c.Fields),
		CRS:    c.CRS,
	}
}

// Filter returns the features for which keep returns true.
func (c *Collection) Filter(keep func(Feature) bool) *Collection {
	out := c.clone()
	for _, f := range c.Features {
		if keep(f) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

// Rename returns a collection with attribute columns renamed per renames.
// Columns not in renames keep their name.
func (c *Collection) Rename(renames map[string]string) *Collection {
	out := c.clone()
	for i, name := range out.Fields {
		if to, ok := renames[name]; ok {
			out.Fields[i] = to
		}
	}
	out.Features = make([]Feature, len(c.Features))
	for i, f := range c.Features {
		attrs := make(map[string]string, len(f.Attrs))
		for k, v := range f.Attrs {
			if to, ok := renames[k]; ok {
				k = to
			}
			attrs[k] = v
		}
		out.Features[i] = Feature{Attrs: attrs, Geometry: f.Geometry}
	}
	return out
}

// Select returns a collection holding only the named attribute columns, in the
// given order. A name the collection lacks is an error.
func (c *Collection) Select(names ...string) (*Collection, error) {
	for _, n := range names {
		if !c.HasField(n) {
			return nil, eris.Errorf("geo: %s: missing column %q", c.Name, n)
		}
	}

	out := c.clone()
	out.Fields = slices.Clone(names)
	out.Features = make([]Feature, len(c.Features))
	for i, f := range c.Features {
		attrs := make(map[string]string, len(names))
		for _, n := range names {
			attrs[n] = f.Attrs[n]
		}
		out.Features[i] = Feature{Attrs: attrs, Geometry: f.Geometry}
	}
	return out, nil
}

// WithConstant returns a collection with column name set to value on every
// feature, appending the column if it is new.
func (c *Collection) WithConstant(name, value string) *Collection {
	out := c.clone()
	if !out.HasField(name) {
		out.Fields = append(out.Fields, name)
	}
	out.Features = make([]Feature, len(c.Features))
	for i, f := range c.Features {
		attrs := make(map[string]string, len(f.Attrs)+1)
		for k, v := range f.Attrs {
			attrs[k] = v
		}
		attrs[name] = value
		out.Features[i] = Feature{Attrs: attrs, Geometry: f.Geometry}
	}
	return out
}
