package clean

import "github.com/sells-group/greater-sydney/internal/model"

// PopulationRenames maps each banded source column to its cleaned name.
var PopulationRenames = map[string]string{
	"0-4_people":         "age_0_4",
	"5-9_people":         "age_5_9",
	"10-14_people":       "age_10_14",
	"15-19_people":       "age_15_19",
	"20-24_people":       "age_20_24",
	"25-29_people":       "age_25_29",
	"30-34_people":       "age_30_34",
	"35-39_people":       "age_35_39",
	"40-44_people":       "age_40_44",
	"45-49_people":       "age_45_49",
	"50-54_people":       "age_50_54",
	"55-59_people":       "age_55_59",
	"60-64_people":       "age_60_64",
	"65-69_people":       "age_65_69",
	"70-74_people":       "age_70_74",
	"75-79_people":       "age_75_79",
	"80-84_people":       "age_80_84",
	"85-and-over_people": "age_85_plus",
	"total_people":       "total_population",
}

// Population renames the banded age columns and coerces every count to a
// non-negative integer, defaulting to 0.
func Population(rows []model.RawPopulation) ([]model.PopulationRecord, Report) {
	rep := Report{Dataset: "population", RowsIn: len(rows)}
	out := make([]model.PopulationRecord, 0, len(rows))

	count := func(s string) int {
		n, ok := toCount(s)
		if !ok {
			rep.Zeroed++
		}
		return n
	}

	for _, r := range rows {
		out = append(out, model.PopulationRecord{
			SA2Code:         r.SA2Code,
			SA2Name:         r.SA2Name,
			Age0To4:         count(r.People0To4),
			Age5To9:         count(r.People5To9),
			Age10To14:       count(r.People10To14),
			Age15To19:       count(r.People15To19),
			Age20To24:       count(r.People20To24),
			Age25To29:       count(r.People25To29),
			Age30To34:       count(r.People30To34),
			Age35To39:       count(r.People35To39),
			Age40To44:       count(r.People40To44),
			Age45To49:       count(r.People45To49),
			Age50To54:       count(r.People50To54),
			Age55To59:       count(r.People55To59),
			Age60To64:       count(r.People60To64),
			Age65To69:       count(r.People65To69),
			Age70To74:       count(r.People70To74),
			Age75To79:       count(r.People75To79),
			Age80To84:       count(r.People80To84),
			Age85Plus:       count(r.People85Plus),
			TotalPopulation: count(r.TotalPeople),
		})
	}

	rep.RowsOut = len(out)
	return out, rep
}
