package clean

import "go.uber.org/zap"

// Report tallies the values a transform absorbed instead of failing on.
type Report struct {
	Dataset string
	RowsIn  int
	RowsOut int
	Nulled  int // values coerced to null
	Zeroed  int // values coerced to zero
	Dropped int // rows removed
}

// Log writes the report at debug level, or info level if anything was absorbed.
func (r Report) Log() {
	log := zap.L().With(zap.String("component", "clean"), zap.String("dataset", r.Dataset))
	fields := []zap.Field{
		zap.Int("rows_in", r.RowsIn),
		zap.Int("rows_out", r.RowsOut),
		zap.Int("nulled", r.Nulled),
		zap.Int("zeroed", r.Zeroed),
		zap.Int("dropped", r.Dropped),
	}
	if r.Nulled+r.Zeroed+r.Dropped > 0 {
		log.Info("coerced malformed values", fields...)
		return
	}
	log.Debug("dataset cleaned", fields...)
}
