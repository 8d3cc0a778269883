package geo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// FieldAliases maps DBF-truncated column names back to their full names.
var FieldAliases = map[string]string{
	"school_nam": "school_name",
}

// ReadShapefile loads a polygon shapefile with its attributes and CRS.
// Records with a null or empty shape are skipped.
func ReadShapefile(shpPath string) (*Collection, error) {
	crs, err := ReadPRJ(shpPath)
	if err != nil {
		return nil, err
	}

	dec, err := charsetDecoder(shpPath)
	if err != nil {
		return nil, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	switch reader.GeometryType {
	case shp.POLYGON, shp.POLYGONZ, shp.POLYGONM, shp.NULL:
	default:
		return nil, eris.Errorf("geo: %s: expected polygon geometry, got shape type %d", shpPath, reader.GeometryType)
	}

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		if full, ok := FieldAliases[name]; ok {
			name = full
		}
		names[i] = name
	}

	c := &Collection{
		Name:   baseName(shpPath),
		Fields: names,
		CRS:    crs,
	}

	var srid int
	if crs != nil {
		srid = crs.EPSG
	}

	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		mp := shapeToMultiPolygon(shape, srid)
		if mp == nil {
			skipped++
			continue
		}

		attrs := make(map[string]string, len(names))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if dec != nil && val != "" {
				if decoded, err := dec.String(val); err == nil {
					val = decoded
				}
			}
			attrs[name] = val
		}

		c.Features = append(c.Features, Feature{Attrs: attrs, Geometry: mp})
	}

	log := zap.L().With(zap.String("component", "geo.shapefile"), zap.String("path", shpPath))
	if skipped > 0 {
		log.Debug("skipped null shapefile records", zap.Int("skipped", skipped))
	}
	log.Debug("shapefile loaded",
		zap.Int("features", len(c.Features)),
		zap.Stringer("crs", c.CRS),
	)

	return c, nil
}

// shapeToMultiPolygon converts a go-shp polygon into a MultiPolygon.
// Clockwise rings are shells. Each counter-clockwise ring is a hole of the
// shell that contains its first vertex, or of the shell before it when none
// does. A hole with no shell to attach to is kept as a shell of its own.
func shapeToMultiPolygon(shape shp.Shape, srid int) *geom.MultiPolygon {
	var parts []int32
	var points []shp.Point

	switch s := shape.(type) {
	case *shp.Polygon:
		parts, points = s.Parts, s.Points
	case *shp.PolygonZ:
		parts, points = s.Parts, s.Points
	case *shp.PolygonM:
		parts, points = s.Parts, s.Points
	default:
		return nil
	}
	if len(parts) == 0 || len(points) == 0 {
		return nil
	}

	type hole struct {
		flat []float64
		prev int // index of the last shell seen before this ring, -1 if none
	}
	var shells [][][]float64 // shell ring followed by its holes
	var holes []hole

	for i := range parts {
		start := parts[i]
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || end-start < 4 {
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, points[j].X, points[j].Y)
		}

		if signedArea(flat) <= 0 {
			shells = append(shells, [][]float64{flat})
		} else {
			holes = append(holes, hole{flat: flat, prev: len(shells) - 1})
		}
	}

	for _, h := range holes {
		owner := h.prev
		for i, rings := range shells {
			if pointInRing(h.flat[0], h.flat[1], rings[0]) {
				owner = i
				break
			}
		}
		if owner < 0 {
			shells = append(shells, [][]float64{h.flat})
			continue
		}
		shells[owner] = append(shells[owner], h.flat)
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
	for i, rings := range shells {
		poly := geom.NewPolygon(geom.XY)
		for _, flat := range rings {
			if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
				zap.L().Debug("geo: skipping malformed polygon ring", zap.Int("polygon", i), zap.Error(err))
			}
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geo: skipping malformed polygon part", zap.Error(err))
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// pointInRing reports whether x, y lies inside the closed flat XY ring, by
// ray casting.
func pointInRing(x, y float64, flat []float64) bool {
	inside := false
	n := len(flat) / 2
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := flat[2*i], flat[2*i+1]
		xj, yj := flat[2*j], flat[2*j+1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// signedArea is the shoelace area of a flat XY ring: positive when the ring is
// counter-clockwise.
func signedArea(flat []float64) float64 {
	var sum float64
	n := len(flat) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += flat[2*i]*flat[2*j+1] - flat[2*j]*flat[2*i+1]
	}
	return sum / 2
}

// charsetDecoder returns a decoder for the encoding named in the .cpg beside
// shpPath, or nil when the attributes are already UTF-8.
func charsetDecoder(shpPath string) (*encoding.Decoder, error) {
	data, err := os.ReadFile(sidecar(shpPath, ".cpg"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read code page for %s", shpPath)
	}

	name := strings.TrimSpace(string(data))
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return nil, nil
	}
	// Esri writes bare Windows code page numbers.
	if isDigits(name) {
		name = "windows-" + name
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: unsupported code page %q", name)
	}
	return enc.NewDecoder(), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// sidecar returns the path of the file next to shpPath with extension ext.
func sidecar(shpPath, ext string) string {
	return strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ext
}

// baseName returns the file name of path without its extension.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
