package reports

import (
	"time"

	"axiapac.com/portal/utils"
)

const defaultTrendDays = 30

func periodStart(freq Frequency, t time.Time) time.Time {
	switch freq {
	case Daily:
		return utils.StartOfDay(t)
	case Monthly:
		return utils.StartOfMonth(t)
	case Yearly:
		return utils.StartOfYear(t)
	}
	return utils.StartOfISOWeek(t)
}

func nextPeriod(freq Frequency, start time.Time) time.Time {
	switch freq {
	case Daily:
		return start.AddDate(0, 0, 1)
	case Monthly:
		return start.AddDate(0, 1, 0)
	case Yearly:
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 0, 7)
}

// periodEnd is the last calendar day of the period beginning at start.
func periodEnd(freq Frequency, start time.Time) time.Time {
	return nextPeriod(freq, start).AddDate(0, 0, -1)
}

func periodLabel(freq Frequency, start time.Time) string {
	switch freq {
	case Daily:
		return start.Format("Mon 2 Jan 2006")
	case Monthly:
		return start.Format("Jan 2006")
	case Yearly:
		return start.Format("2006")
	}
	return utils.ISOWeekLabel(start)
}

func periodKey(freq Frequency, t time.Time) string {
	return utils.FormatDate(periodStart(freq, t))
}

// TrendRange is a date range aligned to whole periods. Start is the first day
// of the first period and End the last day of the last period.
type TrendRange struct {
	Start time.Time
	End   time.Time
}

// ResolveTrendRange fills a missing bound and widens the range outward to
// period boundaries. With no bounds the range is the last 30 days ending at
// now. A lone end date reaches back 30 days; a lone start date runs to today,
// or to itself when it lies in the future.
func ResolveTrendRange(freq Frequency, start, end *time.Time, now time.Time) TrendRange {
	today := utils.StartOfDay(now)
	var from, to time.Time
	switch {
	case start != nil && end != nil:
		from, to = utils.StartOfDay(*start), utils.StartOfDay(*end)
		if to.Before(from) {
			from, to = to, from
		}
	case end != nil:
		to = utils.StartOfDay(*end)
		from = to.AddDate(0, 0, -defaultTrendDays)
	case start != nil:
		from = utils.StartOfDay(*start)
		to = today
		if to.Before(from) {
			to = from
		}
	default:
		from, to = today.AddDate(0, 0, -defaultTrendDays), today
	}
	return TrendRange{
		Start: periodStart(freq, from),
		End:   periodEnd(freq, periodStart(freq, to)),
	}
}

// Periods lists the start of every period in the range.
func (r TrendRange) Periods(freq Frequency) []time.Time {
	var out []time.Time
	for p := periodStart(freq, r.Start); !p.After(r.End); p = nextPeriod(freq, p) {
		out = append(out, p)
	}
	return out
}
