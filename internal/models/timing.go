package models

// PeriodTiming defines the start and end wall time of a numbered period
// for an academic year. Keyed by (year, period_number).
type PeriodTiming struct {
	Year         int    `db:"year" json:"year"`
	PeriodNumber int    `db:"period_number" json:"period_number"`
	StartTime    string `db:"start_time" json:"start_time"`
	EndTime      string `db:"end_time" json:"end_time"`
}
