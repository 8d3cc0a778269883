package clean

import "github.com/sells-group/greater-sydney/internal/model"

// Stops keeps the four stop columns and drops every row whose latitude or
// longitude does not coerce to a finite number.
func Stops(rows []model.RawStop) ([]model.StopRecord, Report) {
	rep := Report{Dataset: "stops", RowsIn: len(rows)}
	out := make([]model.StopRecord, 0, len(rows))

	for _, r := range rows {
		lat, latOK := toFloat(r.StopLat)
		lon, lonOK := toFloat(r.StopLon)
		if !latOK || !lonOK {
			rep.Dropped++
			continue
		}
		out = append(out, model.StopRecord{
			StopID:   r.StopID,
			StopName: r.StopName,
			StopLat:  lat,
			StopLon:  lon,
		})
	}

	rep.RowsOut = len(out)
	return out, rep
}
