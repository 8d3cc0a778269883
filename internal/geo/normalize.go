package geo

import (
	"slices"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Column names used by the source and cleaned shapefiles.
const (
	ColSchoolName = "school_name"
	ColSA2Code    = "sa2_code"
	ColSA2Name    = "sa2_name"

	SrcUseDesc  = "USE_DESC"
	SrcGCCName  = "GCC_NAME21"
	SrcSA2Code  = "SA2_CODE21"
	SrcSA2Name  = "SA2_NAME21"
	catchSuffix = "_catchment"
)

// CleanCatchments names each catchment polygon and canonicalizes the CRS. The
// name comes from USE_DESC when present, otherwise from the source file name
// suffixed with "_catchment". Only school_name and geometry are kept.
func CleanCatchments(c *Collection) (*Collection, error) {
	var named *Collection
	if c.HasField(SrcUseDesc) {
		named = c.Rename(map[string]string{SrcUseDesc: ColSchoolName})
	} else {
		named = c.WithConstant(ColSchoolName, c.Name+catchSuffix)
	}

	out, err := named.Select(ColSchoolName)
	if err != nil {
		return nil, err
	}
	return Canonicalize(out), nil
}

// CleanBoundaries keeps the SA2 regions whose GCC_NAME21 equals label exactly,
// renames the code and name columns, and canonicalizes the CRS.
func CleanBoundaries(c *Collection, label string) (*Collection, error) {
	if _, err := c.Select(SrcGCCName, SrcSA2Code, SrcSA2Name); err != nil {
		return nil, err
	}

	inRegion := c.Filter(func(f Feature) bool {
		return f.Attrs[SrcGCCName] == label
	})

	out, err := inRegion.
		Rename(map[string]string{SrcSA2Code: ColSA2Code, SrcSA2Name: ColSA2Name}).
		Select(ColSA2Code, ColSA2Name)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("boundaries filtered",
		zap.String("component", "geo.normalize"),
		zap.String("label", label),
		zap.Int("kept", out.Len()),
		zap.Int("total", c.Len()),
	)
	return Canonicalize(out), nil
}

// Canonicalize returns c in EPSG:4326. A collection in another supported CRS
// is reprojected vertex by vertex. A collection with no CRS is labelled
// EPSG:4326 with its coordinates untouched.
func Canonicalize(c *Collection) *Collection {
	log := zap.L().With(zap.String("component", "geo.crs"), zap.String("collection", c.Name))

	switch {
	case c.CRS.IsWGS84():
		return c
	case c.CRS == nil:
		log.Warn("no coordinate reference found, assuming EPSG:4326")
		out := c.clone()
		out.CRS = WGS84
		out.Features = make([]Feature, len(c.Features))
		for i, f := range c.Features {
			out.Features[i] = Feature{Attrs: f.Attrs, Geometry: relabel(f.Geometry)}
		}
		return out
	}

	log.Info("reprojecting", zap.Stringer("from", c.CRS), zap.Int("features", c.Len()))

	out := c.clone()
	out.CRS = WGS84
	out.Features = make([]Feature, len(c.Features))
	for i, f := range c.Features {
		out.Features[i] = Feature{Attrs: f.Attrs, Geometry: reproject(f.Geometry, c.CRS)}
	}
	return out
}

// reproject returns a copy of mp with every vertex converted from crs to 4326.
func reproject(mp *geom.MultiPolygon, crs *CRS) *geom.MultiPolygon {
	if mp == nil {
		return nil
	}

	flat := slices.Clone(mp.FlatCoords())
	stride := mp.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = crs.ToWGS84(flat[i], flat[i+1])
	}

	endss := make([][]int, len(mp.Endss()))
	for i, ends := range mp.Endss() {
		endss[i] = slices.Clone(ends)
	}
	return geom.NewMultiPolygonFlat(mp.Layout(), flat, endss).SetSRID(EPSGWGS84)
}

// relabel returns a copy of mp tagged SRID 4326 with identical coordinates.
func relabel(mp *geom.MultiPolygon) *geom.MultiPolygon {
	if mp == nil {
		return nil
	}
	return geom.NewMultiPolygonFlat(mp.Layout(), mp.FlatCoords(), mp.Endss()).SetSRID(EPSGWGS84)
}
