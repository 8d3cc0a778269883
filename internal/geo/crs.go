package geo

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// EPSGWGS84 is the geographic latitude/longitude reference every output uses.
const EPSGWGS84 = 4326

// WGS84PRJ is the .prj text written next to every output shapefile.
const WGS84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// CRS is a coordinate reference system this package can convert to EPSG:4326.
type CRS struct {
	EPSG int
	Name string
	proj projection // nil for geographic systems coincident with WGS84
}

// WGS84 is EPSG:4326.
var WGS84 = &CRS{EPSG: EPSGWGS84, Name: "WGS 84"}

// IsWGS84 reports whether c is EPSG:4326.
func (c *CRS) IsWGS84() bool { return c != nil && c.EPSG == EPSGWGS84 }

// ToWGS84 converts one coordinate from c to longitude/latitude degrees.
func (c *CRS) ToWGS84(x, y float64) (lon, lat float64) {
	if c.proj == nil {
		return x, y
	}
	return c.proj(x, y)
}

// String returns "EPSG:<code>".
func (c *CRS) String() string {
	if c == nil {
		return "unknown"
	}
	return "EPSG:" + strconv.Itoa(c.EPSG)
}

// geographic datums treated as coincident with WGS84. The GDA and NAD83
// realisations differ from WGS84 by well under the precision of the sources.
var geographic = map[int]string{
	4326: "WGS 84",
	4283: "GDA94",
	7844: "GDA2020",
	4269: "NAD83",
}

// CRSFromEPSG returns the CRS for an EPSG code, or an error if the code is not
// one this package can convert.
func CRSFromEPSG(code int) (*CRS, error) {
	if code == EPSGWGS84 {
		return WGS84, nil
	}
	if name, ok := geographic[code]; ok {
		return &CRS{EPSG: code, Name: name}, nil
	}

	switch {
	case code == 3857:
		return &CRS{EPSG: code, Name: "WGS 84 / Pseudo-Mercator", proj: webMercator}, nil
	case code == 4978:
		// geocentric, not a map coordinate system
	default:
		if proj := registryProjection(code); proj != nil {
			return &CRS{EPSG: code, Name: projectedName(code), proj: proj}, nil
		}
	}

	return nil, eris.Errorf("geo: unsupported coordinate reference EPSG:%d", code)
}

// projectedName names the grids shapefiles for this region commonly use.
func projectedName(code int) string {
	switch {
	case code >= 28348 && code <= 28358:
		return "GDA94 / MGA zone " + strconv.Itoa(code-28300)
	case code >= 7846 && code <= 7859:
		return "GDA2020 / MGA zone " + strconv.Itoa(code-7800)
	case code >= 32601 && code <= 32660:
		return "WGS 84 / UTM zone " + strconv.Itoa(code-32600) + "N"
	case code >= 32701 && code <= 32760:
		return "WGS 84 / UTM zone " + strconv.Itoa(code-32700) + "S"
	}
	return "EPSG:" + strconv.Itoa(code)
}

var (
	authorityRe = regexp.MustCompile(`\b(?:AUTHORITY|ID)\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)
	rootNameRe  = regexp.MustCompile(`^\s*(?:PROJCS|GEOGCS|PROJCRS|GEOGCRS|GEODCRS)\[\s*"([^"]+)"`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
	mga94Re     = regexp.MustCompile(`^(?:gda_1994|gda94)_mga_zone_(\d+)$`)
	mga2020Re   = regexp.MustCompile(`^(?:gda_2020|gda2020)_mga_zone_(\d+)$`)
	utmRe       = regexp.MustCompile(`^(?:wgs_1984|wgs_84)_utm_zone_(\d+)([ns])$`)
)

// wellKnownNames maps normalized Esri/OGC root names to EPSG codes.
var wellKnownNames = map[string]int{
	"gcs_wgs_1984":                           4326,
	"wgs_84":                                 4326,
	"wgs84":                                  4326,
	"gcs_gda_1994":                           4283,
	"gda94":                                  4283,
	"gcs_gda2020":                            7844,
	"gcs_gda_2020":                           7844,
	"gda2020":                                7844,
	"gcs_north_american_1983":                4269,
	"nad83":                                  4269,
	"wgs_1984_web_mercator_auxiliary_sphere": 3857,
	"wgs_84_pseudo_mercator":                 3857,
}

// ParsePRJ identifies the CRS described by .prj WKT text. Only an EPSG
// authority on the root node counts; without one the root name is matched
// against well-known Esri and OGC names.
func ParsePRJ(wkt string) (*CRS, error) {
	if code, ok := rootAuthority(wkt); ok {
		return CRSFromEPSG(code)
	}

	m := rootNameRe.FindStringSubmatch(wkt)
	if m == nil {
		return nil, eris.New("geo: unrecognised .prj content")
	}
	name := strings.Trim(nonAlnumRe.ReplaceAllString(strings.ToLower(m[1]), "_"), "_")

	if code, ok := wellKnownNames[name]; ok {
		return CRSFromEPSG(code)
	}
	if z := mga94Re.FindStringSubmatch(name); z != nil {
		zone, _ := strconv.Atoi(z[1])
		return CRSFromEPSG(28300 + zone)
	}
	if z := mga2020Re.FindStringSubmatch(name); z != nil {
		zone, _ := strconv.Atoi(z[1])
		return CRSFromEPSG(7800 + zone)
	}
	if z := utmRe.FindStringSubmatch(name); z != nil {
		zone, _ := strconv.Atoi(z[1])
		if z[2] == "n" {
			return CRSFromEPSG(32600 + zone)
		}
		return CRSFromEPSG(32700 + zone)
	}

	return nil, eris.Errorf("geo: unsupported coordinate reference %q", m[1])
}

// rootAuthority returns the EPSG code declared directly on the outermost WKT
// node. Authorities of nested nodes, such as the GEOGCS inside a PROJCS, are
// ignored.
func rootAuthority(wkt string) (int, bool) {
	depth := make([]int, len(wkt)+1)
	d, quoted := 0, false
	for i := 0; i < len(wkt); i++ {
		depth[i] = d
		switch c := wkt[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[' || c == '(':
			d++
		case c == ']' || c == ')':
			d--
		}
	}

	for _, m := range authorityRe.FindAllStringSubmatchIndex(wkt, -1) {
		if depth[m[0]] != 1 {
			continue
		}
		code, err := strconv.Atoi(wkt[m[2]:m[3]])
		if err != nil {
			continue
		}
		return code, true
	}
	return 0, false
}

// ReadPRJ reads the .prj beside a shapefile. It returns nil, nil when the
// shapefile has no .prj.
func ReadPRJ(shpPath string) (*CRS, error) {
	prjPath := sidecar(shpPath, ".prj")
	data, err := os.ReadFile(prjPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read %s", prjPath)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	crs, err := ParsePRJ(string(data))
	if err != nil {
		return nil, eris.Wrapf(err, "geo: %s", prjPath)
	}
	return crs, nil
}
