package domain

import (
	"time"
)

// ScheduleResult is the estimated sailing attached to a quote option.
// A zero value means "schedule unknown"; the quote engine treats that as
// informational, not as a filtering failure.
type ScheduleResult struct {
	Carrier    string    `json:"carrier"`
	Service    string    `json:"service"`
	POLTag     string    `json:"pol_tag,omitempty"`
	Weekday    string    `json:"weekday"`
	PODCode    string    `json:"pod_code"`
	WeekNo     int       `json:"week_no"`
	WeekLabel  string    `json:"week_label"`
	Vessel     string    `json:"vessel"`
	ETD        time.Time `json:"etd"`
	ETA        time.Time `json:"eta"`
	TransitMin int       `json:"transit_min"`
	TransitMax int       `json:"transit_max"`
}

// IsZero reports whether no sailing was resolved.
func (s ScheduleResult) IsZero() bool {
	return s.Carrier == "" && s.Vessel == "" && s.ETD.IsZero()
}
