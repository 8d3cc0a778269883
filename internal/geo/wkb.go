package geo

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// EncodeEWKB encodes mp as little-endian EWKB carrying SRID 4326, the form
// PostGIS accepts over COPY for a geometry(MultiPolygon, 4326) column.
// A nil geometry encodes as nil (SQL NULL). Geometries must be canonicalized first.
func EncodeEWKB(mp *geom.MultiPolygon) ([]byte, error) {
	if mp == nil {
		return nil, nil
	}
	if mp.SRID() != EPSGWGS84 {
		return nil, eris.Errorf("geo: encode EWKB: geometry has SRID %d, want %d", mp.SRID(), EPSGWGS84)
	}

	data, err := ewkb.Marshal(mp, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode EWKB")
	}
	return data, nil
}
