package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// square returns a clockwise closed ring with its lower-left corner at x, y.
func square(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
		{X: x, Y: y},
	}
}

// writeFixture writes a raw source shapefile the way an upstream publisher
// would, with one single-ring polygon per row. An empty prj writes no .prj.
func writeFixture(t *testing.T, dir, name string, fields []string, rows []map[string]string, prj string) string {
	t.Helper()

	path := filepath.Join(dir, name+".shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	shpFields := make([]shp.Field, len(fields))
	for i, f := range fields {
		shpFields[i] = shp.StringField(f, 50)
	}
	require.NoError(t, w.SetFields(shpFields))

	for i, row := range rows {
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{square(float64(i), 0, 1)}))
		idx := int(w.Write(&poly))
		for j, f := range fields {
			require.NoError(t, w.WriteAttribute(idx, j, row[f]))
		}
	}
	w.Close()

	if prj != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".prj"), []byte(prj), 0o644))
	}
	return path
}

// unitSquare is a counter-clockwise MultiPolygon in EPSG:4326.
func unitSquare(x, y float64) *geom.MultiPolygon {
	return geom.NewMultiPolygonFlat(geom.XY,
		[]float64{x, y, x + 1, y, x + 1, y + 1, x, y + 1, x, y},
		[][]int{{10}},
	).SetSRID(EPSGWGS84)
}
