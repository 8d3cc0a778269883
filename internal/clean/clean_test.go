package clean

import (
	"strings"
	"testing"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/greater-sydney/internal/model"
	"github.com/sells-group/greater-sydney/internal/tabular"
)

func TestIncome_NonNumericBecomesNull(t *testing.T) {
	rows := []model.RawIncome{
		{SA2Code21: "101021007", SA2Name: "Braidwood", MedianIncome: "52000", MeanIncome: "61234.5"},
		{SA2Code21: "101021008", SA2Name: "Karabar", MedianIncome: "np", MeanIncome: ""},
		{SA2Code21: "101021009", SA2Name: "Queanbeyan", MedianIncome: " 48000 ", MeanIncome: "n/a"},
	}

	out, rep := Income(rows)

	require.Len(t, out, 3)
	assert.Equal(t, "101021007", out[0].SA2Code)
	assert.Equal(t, model.NewNullFloat(52000), out[0].MedianIncome)
	assert.Equal(t, model.NewNullFloat(61234.5), out[0].MeanIncome)

	assert.False(t, out[1].MedianIncome.Valid)
	assert.False(t, out[1].MeanIncome.Valid)
	assert.Equal(t, "Karabar", out[1].SA2Name)

	assert.Equal(t, model.NewNullFloat(48000), out[2].MedianIncome)
	assert.False(t, out[2].MeanIncome.Valid)

	assert.Equal(t, 3, rep.RowsIn)
	assert.Equal(t, 3, rep.RowsOut)
	assert.Equal(t, 3, rep.Nulled)
}

func TestPopulation_Scenario(t *testing.T) {
	header := "sa2_code21,sa2_name,0-4_people,5-9_people,10-14_people,15-19_people,20-24_people," +
		"25-29_people,30-34_people,35-39_people,40-44_people,45-49_people,50-54_people," +
		"55-59_people,60-64_people,65-69_people,70-74_people,75-79_people,80-84_people," +
		"85-and-over_people,total_people"
	row := "101021007,Braidwood,12" + strings.Repeat(",", 18)

	rows, err := tabular.Decode[model.RawPopulation](strings.NewReader(header + "\n" + row + "\n"))
	require.NoError(t, err)

	out, rep := Population(rows)

	require.Len(t, out, 1)
	assert.Equal(t, "101021007", out[0].SA2Code)
	assert.Equal(t, "Braidwood", out[0].SA2Name)
	assert.Equal(t, 12, out[0].Age0To4)
	assert.Equal(t, 0, out[0].TotalPopulation)
	assert.Equal(t, 0, out[0].Age85Plus)
	// 18 of the 19 count columns were empty.
	assert.Equal(t, 18, rep.Zeroed)
}

func TestPopulation_CountsNonNegative(t *testing.T) {
	rows := []model.RawPopulation{
		{SA2Code: "1", People0To4: "-3", People5To9: "7.9", People10To14: "abc", People85Plus: "1e2", TotalPeople: "NaN"},
	}

	out, _ := Population(rows)

	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Age0To4)
	assert.Equal(t, 7, out[0].Age5To9)
	assert.Equal(t, 0, out[0].Age10To14)
	assert.Equal(t, 100, out[0].Age85Plus)
	assert.Equal(t, 0, out[0].TotalPopulation)
	for _, n := range out[0].Counts() {
		assert.GreaterOrEqual(t, n, 0)
	}
}

func TestPopulation_OutputColumns(t *testing.T) {
	header, err := csvutil.Header(model.PopulationRecord{}, "csv")
	require.NoError(t, err)

	want := []string{"sa2_code", "sa2_name"}
	for _, name := range []string{
		"0-4", "5-9", "10-14", "15-19", "20-24", "25-29", "30-34", "35-39", "40-44",
		"45-49", "50-54", "55-59", "60-64", "65-69", "70-74", "75-79", "80-84", "85-and-over",
	} {
		want = append(want, PopulationRenames[name+"_people"])
	}
	want = append(want, PopulationRenames["total_people"])

	assert.Equal(t, want, header)
	assert.Len(t, header, 21)
	assert.Contains(t, header, "total_population")
	assert.Contains(t, header, "age_85_plus")
}

func TestBusinesses_CoercesTotal(t *testing.T) {
	rows := []model.RawBusiness{
		{SA2Code: "1", SA2Name: "A", IndustryCode: "A", IndustryName: "Agriculture", TotalBusinesses: "42"},
		{SA2Code: "1", SA2Name: "A", IndustryCode: "B", IndustryName: "Mining", TotalBusinesses: ""},
		{SA2Code: "2", SA2Name: "B", IndustryCode: "C", IndustryName: "Manufacturing", TotalBusinesses: "x"},
	}

	out, rep := Businesses(rows)

	require.Len(t, out, 3)
	assert.Equal(t, 42, out[0].TotalBusinesses)
	assert.Equal(t, 0, out[1].TotalBusinesses)
	assert.Equal(t, 0, out[2].TotalBusinesses)
	assert.Equal(t, "Manufacturing", out[2].IndustryName)
	assert.Equal(t, 2, rep.Zeroed)
	assert.Equal(t, 0, rep.Dropped)
}

func TestStops_DropsInvalidCoordinates(t *testing.T) {
	rows := []model.RawStop{
		{StopID: "200060", StopName: "Central Station", StopLat: "-33.8832", StopLon: "151.2066"},
		{StopID: "200061", StopName: "No Lat", StopLat: "", StopLon: "151.2"},
		{StopID: "200062", StopName: "Bad Lon", StopLat: "-33.9", StopLon: "east"},
		{StopID: "200063", StopName: "Infinite", StopLat: "inf", StopLon: "151.2"},
		{StopID: "200064", StopName: "Town Hall", StopLat: "-33.8732", StopLon: "151.2068"},
	}

	out, rep := Stops(rows)

	assert.LessOrEqual(t, len(out), len(rows))
	require.Len(t, out, 2)
	assert.Equal(t, "200060", out[0].StopID)
	assert.InDelta(t, -33.8832, out[0].StopLat, 1e-9)
	assert.InDelta(t, 151.2066, out[0].StopLon, 1e-9)
	assert.Equal(t, "Town Hall", out[1].StopName)
	assert.Equal(t, 3, rep.Dropped)
	assert.Equal(t, 5, rep.RowsIn)
	assert.Equal(t, 2, rep.RowsOut)
}

func TestStops_Empty(t *testing.T) {
	out, rep := Stops(nil)
	assert.Empty(t, out)
	assert.Equal(t, 0, rep.RowsOut)
}

func TestToCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 12 ", 12, true},
		{"12.99", 12, true},
		{"", 0, false},
		{"-1", 0, false},
		{"1,200", 0, false},
		{"1e30", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := toCount(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
