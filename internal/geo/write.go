package geo

import (
	"os"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

const (
	dbfNameLimit   = 10
	dbfStringLimit = 254
)

// WriteShapefile writes c as a polygon shapefile at shpPath, along with a .prj
// for EPSG:4326 and a UTF-8 .cpg. Existing files are overwritten; a failure
// part-way can leave them incomplete.
func WriteShapefile(shpPath string, c *Collection) error {
	if !c.CRS.IsWGS84() {
		return eris.Errorf("geo: %s: refusing to write %s geometry, canonicalize first", c.Name, c.CRS)
	}

	fields := make([]shp.Field, len(c.Fields))
	widths := make([]int, len(c.Fields))
	for i, name := range c.Fields {
		w := fieldWidth(c, name)
		fields[i] = shp.StringField(dbfName(name), w)
		widths[i] = int(w)
	}

	w, err := shp.Create(shpPath, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "geo: create shapefile %s", shpPath)
	}
	defer w.Close()

	if err := w.SetFields(fields); err != nil {
		return eris.Wrapf(err, "geo: set fields for %s", shpPath)
	}

	truncated := make(map[string]int)
	for _, f := range c.Features {
		poly := multiPolygonToShape(f.Geometry)
		row := int(w.Write(poly))
		for i, name := range c.Fields {
			val, cut := truncateUTF8(f.Attrs[name], widths[i])
			if cut {
				truncated[name]++
			}
			if err := w.WriteAttribute(row, i, val); err != nil {
				return eris.Wrapf(err, "geo: write attribute %s row %d", name, row)
			}
		}
	}
	for name, n := range truncated {
		zap.L().Warn("attribute values truncated to DBF field width",
			zap.String("component", "geo.write"),
			zap.String("path", shpPath),
			zap.String("field", name),
			zap.Int("values", n),
		)
	}

	if err := os.WriteFile(sidecar(shpPath, ".prj"), []byte(WGS84PRJ), 0o644); err != nil {
		return eris.Wrapf(err, "geo: write .prj for %s", shpPath)
	}
	if err := os.WriteFile(sidecar(shpPath, ".cpg"), []byte("UTF-8"), 0o644); err != nil {
		return eris.Wrapf(err, "geo: write .cpg for %s", shpPath)
	}

	zap.L().Debug("shapefile written",
		zap.String("component", "geo.write"),
		zap.String("path", shpPath),
		zap.Int("features", c.Len()),
	)
	return nil
}

// multiPolygonToShape converts mp to a go-shp polygon with clockwise shells
// and counter-clockwise holes.
func multiPolygonToShape(mp *geom.MultiPolygon) *shp.Polygon {
	var parts [][]shp.Point
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		for j := 0; j < p.NumLinearRings(); j++ {
			lr := p.LinearRing(j)
			flat := lr.FlatCoords()
			stride := lr.Stride()

			pts := make([]shp.Point, 0, len(flat)/stride)
			for k := 0; k+1 < len(flat); k += stride {
				pts = append(pts, shp.Point{X: flat[k], Y: flat[k+1]})
			}

			// Shell (j == 0) must have negative area, holes positive.
			area := signedArea(xyFlat(flat, stride))
			if (j == 0 && area > 0) || (j > 0 && area < 0) {
				reversePoints(pts)
			}
			parts = append(parts, pts)
		}
	}

	poly := shp.Polygon(*shp.NewPolyLine(parts))
	return &poly
}

// xyFlat drops any dimensions beyond XY from flat coordinates.
func xyFlat(flat []float64, stride int) []float64 {
	if stride == 2 {
		return flat
	}
	out := make([]float64, 0, len(flat)/stride*2)
	for k := 0; k+1 < len(flat); k += stride {
		out = append(out, flat[k], flat[k+1])
	}
	return out
}

func reversePoints(pts []shp.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// dbfName truncates a column name to the 10 bytes a DBF header allows.
func dbfName(name string) string {
	if len(name) > dbfNameLimit {
		return name[:dbfNameLimit]
	}
	return name
}

// truncateUTF8 shortens s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n], true
}

// fieldWidth sizes a DBF string column to its longest value.
func fieldWidth(c *Collection, name string) uint8 {
	width := 1
	for _, f := range c.Features {
		if n := len(f.Attrs[name]); n > width {
			width = n
		}
	}
	if width > dbfStringLimit {
		width = dbfStringLimit
	}
	return uint8(width)
}
