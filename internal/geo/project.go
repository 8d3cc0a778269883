package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/wroge/wgs84"
)

// projection converts projected x/y metres to longitude/latitude degrees.
type projection func(x, y float64) (lon, lat float64)

// epsgRegistry holds the projected systems wgs84 knows, plus the GDA94 and
// GDA2020 Map Grid of Australia zones.
var epsgRegistry = newRegistry()

func newRegistry() *wgs84.Repository {
	r := wgs84.EPSG()
	for zone := 48; zone <= 58; zone++ {
		r.Add(28300+zone, mga(zone))
	}
	for zone := 46; zone <= 59; zone++ {
		r.Add(7800+zone, mga(zone))
	}
	return r
}

// mga is one Map Grid of Australia zone: UTM south on GRS80. GDA94 and
// GDA2020 share the grid; both datums are taken as coincident with WGS84.
func mga(zone int) wgs84.ProjectedReferenceSystem {
	gda := wgs84.Datum{Spheroid: wgs84.GRS80{}}
	return gda.TransverseMercator(float64(zone*6-183), 0, 0.9996, 500000, 10000000)
}

// webMercator inverts EPSG:3857.
func webMercator(x, y float64) (float64, float64) {
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p.Lon(), p.Lat()
}

// registryProjection returns the inverse of a projected EPSG code, or nil when
// the registry does not know it.
func registryProjection(code int) projection {
	crs := epsgRegistry.Code(code)
	if crs == nil {
		return nil
	}

	toLonLat := wgs84.Transform(crs, wgs84.LonLat())
	return func(x, y float64) (float64, float64) {
		lon, lat, _ := toLonLat(x, y, 0)
		return lon, lat
	}
}
