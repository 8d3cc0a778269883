package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestReadShapefile_AttributesAndCRS(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "catchments_primary",
		[]string{"USE_ID", "USE_DESC"},
		[]map[string]string{
			{"USE_ID": "1", "USE_DESC": "Abbotsford PS"},
			{"USE_ID": "2", "USE_DESC": "Ashfield PS"},
		},
		gda2020PRJ,
	)

	c, err := ReadShapefile(path)
	require.NoError(t, err)

	assert.Equal(t, "catchments_primary", c.Name)
	assert.Equal(t, []string{"USE_ID", "USE_DESC"}, c.Fields)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "Abbotsford PS", c.Features[0].Attrs["USE_DESC"])
	assert.Equal(t, 7844, c.CRS.EPSG)

	mp := c.Features[1].Geometry
	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 7844, mp.SRID())
}

func TestReadShapefile_NoPRJ(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "catchments_future",
		[]string{"CATCH_TYPE"},
		[]map[string]string{{"CATCH_TYPE": "FUTURE"}},
		"",
	)

	c, err := ReadShapefile(path)
	require.NoError(t, err)
	assert.Nil(t, c.CRS)
	assert.Equal(t, 1, c.Len())
}

func TestReadShapefile_Missing(t *testing.T) {
	_, err := ReadShapefile(filepath.Join(t.TempDir(), "SA2_2021_AUST_GDA2020.shp"))
	require.Error(t, err)
}

func TestReadShapefile_RejectsPoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stops.shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("ID", 5)}))
	w.Write(&shp.Point{X: 151.2, Y: -33.8})
	w.Close()

	_, err = ReadShapefile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected polygon geometry")
}

func TestReadShapefile_CodePage(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "latin",
		[]string{"USE_DESC"},
		[]map[string]string{{"USE_DESC": "Caf\xe9 PS"}},
		"",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latin.cpg"), []byte("1252"), 0o644))

	c, err := ReadShapefile(path)
	require.NoError(t, err)
	assert.Equal(t, "Café PS", c.Features[0].Attrs["USE_DESC"])
}

func TestShapeToMultiPolygon_HolesFollowShell(t *testing.T) {
	shell := square(0, 0, 10)
	hole := []shp.Point{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}} // counter-clockwise
	island := square(20, 20, 5)

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{shell, hole, island}))
	mp := shapeToMultiPolygon(&poly, EPSGWGS84)

	require.NotNil(t, mp)
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
}

func TestShapeToMultiPolygon_HoleJoinsContainingShell(t *testing.T) {
	shellA := square(0, 0, 10)
	shellB := square(20, 0, 10)
	hole := []shp.Point{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}}

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{shellA, shellB, hole}))
	mp := shapeToMultiPolygon(&poly, EPSGWGS84)

	require.NotNil(t, mp)
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings(), "hole belongs to the shell around it")
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
	assert.Equal(t, []float64{20, 0}, mp.Polygon(1).LinearRing(0).FlatCoords()[:2])
}

func TestShapeToMultiPolygon_HoleWithoutShell(t *testing.T) {
	ring := []shp.Point{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}}

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	mp := shapeToMultiPolygon(&poly, EPSGWGS84)

	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestPointInRing(t *testing.T) {
	flat := []float64{0, 0, 0, 10, 10, 10, 10, 0, 0, 0}
	assert.True(t, pointInRing(2, 2, flat))
	assert.False(t, pointInRing(12, 2, flat))
	assert.False(t, pointInRing(-1, 5, flat))
}

func TestShapeToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, shapeToMultiPolygon(nil, 0))
	assert.Nil(t, shapeToMultiPolygon(&shp.Polygon{}, 0))
	assert.Nil(t, shapeToMultiPolygon(&shp.Point{X: 1, Y: 1}, 0))
}

func TestWriteShapefile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := &Collection{
		Name:   "catchments_secondary",
		Fields: []string{ColSchoolName},
		CRS:    WGS84,
		Features: []Feature{
			{Attrs: map[string]string{ColSchoolName: "Sydney Boys HS"}, Geometry: unitSquare(151, -34)},
			{Attrs: map[string]string{ColSchoolName: "Fort Street HS"}, Geometry: unitSquare(150, -33)},
		},
	}

	path := filepath.Join(dir, "catchments_secondary_cleaned.shp")
	require.NoError(t, WriteShapefile(path, src))
	assert.FileExists(t, filepath.Join(dir, "catchments_secondary_cleaned.prj"))
	assert.FileExists(t, filepath.Join(dir, "catchments_secondary_cleaned.dbf"))

	got, err := ReadShapefile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{ColSchoolName}, got.Fields)
	assert.True(t, got.CRS.IsWGS84())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Fort Street HS", got.Features[1].Attrs[ColSchoolName])

	b := got.Features[0].Geometry.Bounds()
	assert.InDelta(t, 151, b.Min(0), 1e-9)
	assert.InDelta(t, -34, b.Min(1), 1e-9)
	assert.InDelta(t, 152, b.Max(0), 1e-9)
	assert.InDelta(t, -33, b.Max(1), 1e-9)
}

func TestWriteShapefile_RequiresWGS84(t *testing.T) {
	mga, err := CRSFromEPSG(28356)
	require.NoError(t, err)

	err = WriteShapefile(filepath.Join(t.TempDir(), "x.shp"), &Collection{Name: "x", CRS: mga})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canonicalize first")
}

func TestMultiPolygonToShape_Orientation(t *testing.T) {
	// unitSquare is counter-clockwise; the shapefile shell must come out clockwise.
	poly := multiPolygonToShape(unitSquare(0, 0))

	flat := make([]float64, 0, len(poly.Points)*2)
	for _, p := range poly.Points {
		flat = append(flat, p.X, p.Y)
	}
	assert.Less(t, signedArea(flat), 0.0)
	assert.Equal(t, int32(1), poly.NumParts)
}

func TestWriteShapefile_TruncatesLongValues(t *testing.T) {
	long := strings.Repeat("é", 200) // 400 bytes of UTF-8
	src := &Collection{
		Name:     "catchments_primary",
		Fields:   []string{ColSchoolName},
		CRS:      WGS84,
		Features: []Feature{{Attrs: map[string]string{ColSchoolName: long}, Geometry: unitSquare(151, -34)}},
	}

	path := filepath.Join(t.TempDir(), "catchments_primary_cleaned.shp")
	require.NoError(t, WriteShapefile(path, src))

	got, err := ReadShapefile(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	name := got.Features[0].Attrs[ColSchoolName]
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, strings.Repeat("é", 127), name)
}

func TestTruncateUTF8(t *testing.T) {
	s, cut := truncateUTF8("Café", 4)
	assert.Equal(t, "Caf", s)
	assert.True(t, cut)

	s, cut = truncateUTF8("Café", 5)
	assert.Equal(t, "Café", s)
	assert.False(t, cut)
}

func TestDBFName(t *testing.T) {
	assert.Equal(t, "school_nam", dbfName(ColSchoolName))
	assert.Equal(t, "sa2_code", dbfName(ColSA2Code))
	assert.Equal(t, ColSchoolName, FieldAliases[dbfName(ColSchoolName)])
}

func TestEncodeEWKB(t *testing.T) {
	data, err := EncodeEWKB(unitSquare(151, -34))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// Little-endian byte order marker.
	assert.Equal(t, byte(1), data[0])

	data, err = EncodeEWKB(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	unlabelled := geom.NewMultiPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 0}, [][]int{{8}})
	_, err = EncodeEWKB(unlabelled)
	require.Error(t, err)
}
