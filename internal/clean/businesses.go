package clean

import "github.com/sells-group/greater-sydney/internal/model"

// Businesses keeps the five business columns and coerces total_businesses to a
// non-negative integer, defaulting to 0.
func Businesses(rows []model.RawBusiness) ([]model.BusinessRecord, Report) {
	rep := Report{Dataset: "businesses", RowsIn: len(rows)}
	out := make([]model.BusinessRecord, 0, len(rows))

	for _, r := range rows {
		total, ok := toCount(r.TotalBusinesses)
		if !ok {
			rep.Zeroed++
		}
		out = append(out, model.BusinessRecord{
			SA2Code:         r.SA2Code,
			SA2Name:         r.SA2Name,
			IndustryCode:    r.IndustryCode,
			IndustryName:    r.IndustryName,
			TotalBusinesses: total,
		})
	}

	rep.RowsOut = len(out)
	return out, rep
}
