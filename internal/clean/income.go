package clean

import "github.com/sells-group/greater-sydney/internal/model"

// Income renames sa2_code21 to sa2_code and coerces both income columns to
// nullable numbers. No row is dropped.
func Income(rows []model.RawIncome) ([]model.IncomeRecord, Report) {
	rep := Report{Dataset: "income", RowsIn: len(rows)}
	out := make([]model.IncomeRecord, 0, len(rows))

	for _, r := range rows {
		rec := model.IncomeRecord{
			SA2Code:      r.SA2Code21,
			SA2Name:      r.SA2Name,
			MedianIncome: toNullFloat(r.MedianIncome),
			MeanIncome:   toNullFloat(r.MeanIncome),
		}
		if !rec.MedianIncome.Valid {
			rep.Nulled++
		}
		if !rec.MeanIncome.Valid {
			rep.Nulled++
		}
		out = append(out, rec)
	}

	rep.RowsOut = len(out)
	return out, rep
}
