// Package schedule resolves the next matching sailing and an estimated
// transit-time range for a carrier/POL/POD lane, from a build-once
// index of the schedule workbook.
package schedule

import (
	"sort"
	"strings"
	"time"

	"ratedesk/pkg/contracts/domain"
)

// Estimator answers sailing lookups against a loaded index. No match at
// any stage returns a zero ScheduleResult, never an error: the quote
// engine treats a missing schedule as "schedule unknown".
type Estimator struct {
	idx *Index

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewEstimator wraps a loaded index.
func NewEstimator(idx *Index) *Estimator {
	if idx == nil {
		idx = &Index{}
	}
	return &Estimator{idx: idx, now: time.Now}
}

// ScheduleFor resolves the estimated sailing for one quote option.
// Week selection uses the cargo-ready date's ISO week (today if
// absent): the earliest indexed week at or after it whose sailing day
// does not precede the cargo-ready date. If no such week exists the
// earliest available week is used, rolled into the following year when
// needed so the ETD never precedes a supplied cargo-ready date.
func (e *Estimator) ScheduleFor(carrier, pol, podCode string, cargoReady *time.Time) domain.ScheduleResult {
	carrierUp := strings.ToUpper(strings.TrimSpace(carrier))
	polUp := strings.ToUpper(strings.TrimSpace(pol))
	podUp := strings.ToUpper(strings.TrimSpace(podCode))
	if carrierUp == "" || podUp == "" || e.idx.Len() == 0 {
		return domain.ScheduleResult{}
	}

	candidates := make(map[string]struct{})
	for _, c := range ExpandPODCandidates(podUp) {
		candidates[c] = struct{}{}
	}

	var matches []Entry
	for _, entry := range e.idx.entries {
		if entry.Carrier != carrierUp {
			continue
		}
		if _, ok := candidates[entry.PODCode]; !ok {
			continue
		}
		if entry.POLTag != POLTagAny && entry.POLTag != polUp {
			continue
		}
		matches = append(matches, entry)
	}
	if len(matches) == 0 {
		return domain.ScheduleResult{}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].WeekNo < matches[j].WeekNo
	})

	refDay := truncateDay(e.now())
	if cargoReady != nil {
		refDay = truncateDay(*cargoReady)
	}
	year, refWeek := refDay.ISOWeek()

	chosen := matches[0]
	etd := etdFor(year, chosen)
	found := false
	for _, m := range matches {
		if m.WeekNo < refWeek {
			continue
		}
		candidate := etdFor(year, m)
		if cargoReady != nil && candidate.Before(refDay) {
			continue
		}
		chosen, etd, found = m, candidate, true
		break
	}
	if !found {
		// Past the last indexed week: wrap to the earliest week. With a
		// cargo-ready date that means next year's occurrence.
		if cargoReady != nil && etd.Before(refDay) {
			etd = etdFor(year+1, chosen)
		}
	}

	transitMin, transitMax := EstimateTransit(podUp)
	eta := etd.AddDate(0, 0, (transitMin+transitMax)/2)

	return domain.ScheduleResult{
		Carrier:    chosen.Carrier,
		Service:    chosen.Service,
		POLTag:     chosen.POLTag,
		Weekday:    chosen.Weekday,
		PODCode:    podUp,
		WeekNo:     chosen.WeekNo,
		WeekLabel:  chosen.WeekLabel,
		Vessel:     chosen.Vessel,
		ETD:        etd,
		ETA:        eta,
		TransitMin: transitMin,
		TransitMax: transitMax,
	}
}

func etdFor(year int, entry Entry) time.Time {
	day, ok := weekdayIndex[entry.Weekday]
	if !ok {
		day = weekdayIndex[defaultWeekday]
	}
	return isoWeekDate(year, entry.WeekNo, day+1)
}

// isoWeekDate converts (ISO year, ISO week, ISO weekday 1..7) to a
// date, anchored on January 4 which is always in week 1.
func isoWeekDate(year, week, isoWeekday int) time.Time {
	fourthJan := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	anchorWeekday := int(fourthJan.Weekday())
	if anchorWeekday == 0 {
		anchorWeekday = 7 // Sunday
	}
	days := (week-1)*7 + (isoWeekday - anchorWeekday)
	return fourthJan.AddDate(0, 0, days)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
