package model

// Raw rows mirror the source CSV headers. Every field is read as text so that
// coercion happens in one place (internal/clean) and never fails the decode.

// RawIncome is a row of Income.csv.
type RawIncome struct {
	SA2Code21    string `csv:"sa2_code21"`
	SA2Name      string `csv:"sa2_name"`
	MedianIncome string `csv:"median_income"`
	MeanIncome   string `csv:"mean_income"`
}

// RawPopulation is a row of Population.csv.
type RawPopulation struct {
	SA2Code      string `csv:"sa2_code"`
	SA2Name      string `csv:"sa2_name"`
	People0To4   string `csv:"0-4_people"`
	People5To9   string `csv:"5-9_people"`
	People10To14 string `csv:"10-14_people"`
	People15To19 string `csv:"15-19_people"`
	People20To24 string `csv:"20-24_people"`
	People25To29 string `csv:"25-29_people"`
	People30To34 string `csv:"30-34_people"`
	People35To39 string `csv:"35-39_people"`
	People40To44 string `csv:"40-44_people"`
	People45To49 string `csv:"45-49_people"`
	People50To54 string `csv:"50-54_people"`
	People55To59 string `csv:"55-59_people"`
	People60To64 string `csv:"60-64_people"`
	People65To69 string `csv:"65-69_people"`
	People70To74 string `csv:"70-74_people"`
	People75To79 string `csv:"75-79_people"`
	People80To84 string `csv:"80-84_people"`
	People85Plus string `csv:"85-and-over_people"`
	TotalPeople  string `csv:"total_people"`
}

// RawBusiness is a row of Businesses.csv.
type RawBusiness struct {
	SA2Code         string `csv:"sa2_code"`
	SA2Name         string `csv:"sa2_name"`
	IndustryCode    string `csv:"industry_code"`
	IndustryName    string `csv:"industry_name"`
	TotalBusinesses string `csv:"total_businesses"`
}

// RawStop is a row of a GTFS stops.csv.
type RawStop struct {
	StopID   string `csv:"stop_id"`
	StopName string `csv:"stop_name"`
	StopLat  string `csv:"stop_lat"`
	StopLon  string `csv:"stop_lon"`
}

// ColumnAliases lets Population.csv key its rows by sa2_code21, the column
// name the other ABS extracts use.
func (RawPopulation) ColumnAliases() map[string]string {
	return map[string]string{"sa2_code21": "sa2_code"}
}
