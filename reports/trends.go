package reports

import (
	"slices"
	"strings"

	"axiapac.com/portal/utils"
)

type TrendPoint struct {
	Period           string `json:"period"`
	Label            string `json:"label"`
	PeriodStart      string `json:"periodStart"`
	PeriodEnd        string `json:"periodEnd"`
	TotalHours       string `json:"totalHours"`
	BillableHours    string `json:"billableHours"`
	NonBillableHours string `json:"nonBillableHours"`
	EntryCount       int    `json:"entryCount"`
}

type trendBucket struct {
	hourTally
	point TrendPoint
}

// BuildTrends returns one point per period in the range, zero-filled where no
// entries fell. Entries outside every period are skipped and counted.
func BuildTrends(entries []OwnedEntry, freq Frequency, rng TrendRange) ([]TrendPoint, int) {
	buckets := utils.NewOrderedMap[string, *trendBucket]()
	for _, start := range rng.Periods(freq) {
		key := utils.FormatDate(start)
		buckets.Set(key, &trendBucket{point: TrendPoint{
			Period:      key,
			Label:       periodLabel(freq, start),
			PeriodStart: key,
			PeriodEnd:   utils.FormatDate(periodEnd(freq, start)),
		}})
	}

	dropped := 0
	for _, e := range entries {
		b, ok := buckets.Get(periodKey(freq, utils.DateIn(e.WorkDate, rng.Start.Location())))
		if !ok {
			dropped++
			continue
		}
		b.add(e)
	}

	points := make([]TrendPoint, 0, buckets.Len())
	for _, b := range buckets.Values() {
		p := b.point
		p.TotalHours = utils.FormatHours(b.total)
		p.BillableHours = utils.FormatHours(b.billable)
		p.NonBillableHours = utils.FormatHours(b.nonBillable())
		p.EntryCount = b.entries
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b TrendPoint) int { return strings.Compare(a.Period, b.Period) })

	return points, dropped
}
