// Package postgis loads the cleaned geometry outputs into PostGIS tables and
// re-establishes the SA2 primary and foreign keys around them.
package postgis

import (
	"path/filepath"
)

// GeometryColumn is the name of the geometry column in every spatial table.
const GeometryColumn = "geometry"

// Destination table names.
const (
	TableSA2Boundaries       = "sa2_boundaries"
	TableCatchmentsPrimary   = "catchments_primary"
	TableCatchmentsSecondary = "catchments_secondary"
	TableCatchmentsFuture    = "catchments_future"
)

// Table pairs a cleaned shapefile with the table it is loaded into.
type Table struct {
	Name string
	File string
}

// DefaultTables returns the four spatial tables read from the cleaned
// shapefiles in dir, in load order.
func DefaultTables(dir string) []Table {
	return []Table{
		{Name: TableSA2Boundaries, File: filepath.Join(dir, "sa2_cleaned.shp")},
		{Name: TableCatchmentsPrimary, File: filepath.Join(dir, "catchments_primary_cleaned.shp")},
		{Name: TableCatchmentsSecondary, File: filepath.Join(dir, "catchments_secondary_cleaned.shp")},
		{Name: TableCatchmentsFuture, File: filepath.Join(dir, "catchments_future_cleaned.shp")},
	}
}

// TableNames returns the names of tables in order.
func TableNames(tables []Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
