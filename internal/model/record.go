// Package model defines the raw and cleaned record types flowing through the ingest pipeline.
package model

// IncomeRecord is one SA2 region's income summary.
type IncomeRecord struct {
	SA2Code      string    `csv:"sa2_code"`
	SA2Name      string    `csv:"sa2_name"`
	MedianIncome NullFloat `csv:"median_income"`
	MeanIncome   NullFloat `csv:"mean_income"`
}

// PopulationRecord is one SA2 region's population by five-year age bracket.
type PopulationRecord struct {
	SA2Code         string `csv:"sa2_code"`
	SA2Name         string `csv:"sa2_name"`
	Age0To4         int    `csv:"age_0_4"`
	Age5To9         int    `csv:"age_5_9"`
	Age10To14       int    `csv:"age_10_14"`
	Age15To19       int    `csv:"age_15_19"`
	Age20To24       int    `csv:"age_20_24"`
	Age25To29       int    `csv:"age_25_29"`
	Age30To34       int    `csv:"age_30_34"`
	Age35To39       int    `csv:"age_35_39"`
	Age40To44       int    `csv:"age_40_44"`
	Age45To49       int    `csv:"age_45_49"`
	Age50To54       int    `csv:"age_50_54"`
	Age55To59       int    `csv:"age_55_59"`
	Age60To64       int    `csv:"age_60_64"`
	Age65To69       int    `csv:"age_65_69"`
	Age70To74       int    `csv:"age_70_74"`
	Age75To79       int    `csv:"age_75_79"`
	Age80To84       int    `csv:"age_80_84"`
	Age85Plus       int    `csv:"age_85_plus"`
	TotalPopulation int    `csv:"total_population"`
}

// Counts returns the 18 age-bracket counts followed by the total, in column order.
func (p PopulationRecord) Counts() []int {
	return []int{
		p.Age0To4, p.Age5To9, p.Age10To14, p.Age15To19, p.Age20To24, p.Age25To29,
		p.Age30To34, p.Age35To39, p.Age40To44, p.Age45To49, p.Age50To54, p.Age55To59,
		p.Age60To64, p.Age65To69, p.Age70To74, p.Age75To79, p.Age80To84, p.Age85Plus,
		p.TotalPopulation,
	}
}

// BusinessRecord counts registered businesses for one (SA2, industry) pair.
type BusinessRecord struct {
	SA2Code         string `csv:"sa2_code"`
	SA2Name         string `csv:"sa2_name"`
	IndustryCode    string `csv:"industry_code"`
	IndustryName    string `csv:"industry_name"`
	TotalBusinesses int    `csv:"total_businesses"`
}

// StopRecord is a public transport stop with a valid coordinate.
type StopRecord struct {
	StopID   string  `csv:"stop_id"`
	StopName string  `csv:"stop_name"`
	StopLat  float64 `csv:"stop_lat"`
	StopLon  float64 `csv:"stop_lon"`
}
