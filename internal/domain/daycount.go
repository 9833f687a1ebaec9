package domain

import "sort"

// DayCount is one workstation's cumulative record for a single day. It is
// keyed by (Day, WorkstationID) in storage; an upload for the same key
// replaces the previous record entirely.
type DayCount struct {
	Day           string
	WorkstationID string
	Patterns      map[string]int64
	TotalMessages int64
}

// DayTotals is the aggregated view of one day: pattern counts and message
// totals summed across every workstation with a record for that day. It is
// derived on read and never stored.
type DayTotals struct {
	Day           string
	Patterns      map[string]int64
	TotalMessages int64
}

// AggregateByDay sums records elementwise per day and returns one DayTotals
// per day, sorted ascending. The sum is independent of record order, so
// out-of-order or repeated upserts from a source cannot skew it.
func AggregateByDay(records []DayCount) []DayTotals {
	byDay := make(map[string]*DayTotals)
	for _, rec := range records {
		totals, ok := byDay[rec.Day]
		if !ok {
			totals = &DayTotals{Day: rec.Day, Patterns: make(map[string]int64)}
			byDay[rec.Day] = totals
		}
		for name, count := range rec.Patterns {
			totals.Patterns[name] += count
		}
		totals.TotalMessages += rec.TotalMessages
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	result := make([]DayTotals, len(days))
	for i, day := range days {
		result[i] = *byDay[day]
	}
	return result
}
