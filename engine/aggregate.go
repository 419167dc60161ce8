/*
aggregate.go - Pay-period aggregation

PURPOSE:
  Rolls a shift collection up into period totals: paid/premium/additional
  minutes, hour splits, the pay estimate, per-rate breakdowns, and daily
  totals for trend charts.

PAY ESTIMATE FORMULA:
  estimate = baseRate * totalHours
           + sum over premium shifts of baseRate * premiumHours * (multiplier - 1)

  Base pay covers ALL hours once; premium shifts add only the incremental
  portion on top. A naive baseRate * multiplier * hours would double-count
  the base pay for partially-premium shifts.

NEVER ERRORS:
  Aggregation tolerates missing data: no base rate means the estimate is
  simply absent, no shifts means zero totals. Callers always get a result.

SEE ALSO:
  - period.go: Period boundaries and the stored aggregate cache
  - forecast.go: Projection built on these summaries
*/
package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one        = decimal.NewFromInt(1)
	minutesPer = decimal.NewFromInt(60)
)

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPer)
}

// =============================================================================
// PERIOD MEMBERSHIP
// =============================================================================

// ShiftsIn filters to non-deleted shifts whose scheduled start falls
// within the normalized period, ordered ascending by scheduled start.
func ShiftsIn(period Period, shifts []Shift) []Shift {
	period = NormalizePeriod(period)
	var in []Shift
	for _, s := range shifts {
		if s.IsDeleted() {
			continue
		}
		if period.Contains(s.ScheduledStart) {
			in = append(in, s)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].ScheduledStart.Before(in[j].ScheduledStart) })
	return in
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary holds the aggregate view of a shift collection. Actual totals
// count completed shifts only.
type Summary struct {
	PaidMinutes            int
	PremiumMinutes         int
	AdditionalShiftMinutes int

	TotalHours   decimal.Decimal
	RegularHours decimal.Decimal
	PremiumHours decimal.Decimal

	CompletedShifts int

	// Nil when no base rate is configured.
	EstimatedPayCents *int64
}

// Summarize computes totals across completed shifts and, when a base rate
// is supplied, the pay estimate with incremental premium.
func Summarize(shifts []Shift, baseRateCents *int64) Summary {
	sum := Summary{
		TotalHours:   decimal.Zero,
		RegularHours: decimal.Zero,
		PremiumHours: decimal.Zero,
	}

	var rate decimal.Decimal
	if baseRateCents != nil {
		rate = decimal.NewFromInt(*baseRateCents)
	}
	pay := decimal.Zero

	for _, s := range shifts {
		if s.Status != StatusCompleted || s.IsDeleted() {
			continue
		}
		sum.CompletedShifts++
		sum.PaidMinutes += s.PaidMinutes

		premium := s.PremiumMinutes
		if premium > s.PaidMinutes {
			premium = s.PaidMinutes
		}
		sum.PremiumMinutes += premium

		if s.IsAdditional {
			sum.AdditionalShiftMinutes += s.PaidMinutes
		}

		if baseRateCents != nil && premium > 0 && s.RateMultiplier.GreaterThan(one) {
			incremental := rate.Mul(minutesToHours(premium)).Mul(s.RateMultiplier.Sub(one))
			pay = pay.Add(incremental)
		}
	}

	sum.TotalHours = minutesToHours(sum.PaidMinutes)
	sum.PremiumHours = minutesToHours(sum.PremiumMinutes)
	sum.RegularHours = sum.TotalHours.Sub(sum.PremiumHours)

	if baseRateCents != nil {
		pay = pay.Add(rate.Mul(sum.TotalHours))
		cents := pay.Round(0).IntPart()
		sum.EstimatedPayCents = &cents
	}
	return sum
}

// =============================================================================
// RATE BREAKDOWN
// =============================================================================

// RateBucket groups completed hours under one rate label for charts and
// pay-estimate transparency.
type RateBucket struct {
	Label      string
	Multiplier decimal.Decimal
	Hours      decimal.Decimal
	Shifts     int
}

// RateBreakdown groups completed shifts by rate label (falling back to the
// formatted multiplier, e.g. "1.5x"), ordered by ascending multiplier.
func RateBreakdown(shifts []Shift) []RateBucket {
	byLabel := make(map[string]*RateBucket)
	var order []string

	for _, s := range shifts {
		if s.Status != StatusCompleted || s.IsDeleted() {
			continue
		}
		label := s.RateLabel
		if label == "" {
			label = s.RateMultiplier.String() + "x"
		}
		bucket, ok := byLabel[label]
		if !ok {
			bucket = &RateBucket{Label: label, Multiplier: s.RateMultiplier}
			byLabel[label] = bucket
			order = append(order, label)
		}
		bucket.Hours = bucket.Hours.Add(minutesToHours(s.PaidMinutes))
		bucket.Shifts++
	}

	buckets := make([]RateBucket, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, *byLabel[label])
	}
	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].Multiplier.Equal(buckets[j].Multiplier) {
			return buckets[i].Multiplier.LessThan(buckets[j].Multiplier)
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

// =============================================================================
// DAILY TOTALS
// =============================================================================

// DailyTotal is one chart point: a calendar day and its completed hours.
type DailyTotal struct {
	Date  time.Time
	Hours decimal.Decimal
}

// dailyKey is the map key for per-day bucketing.
const dailyKey = "2006-01-02"

// DailyTotals returns one entry per calendar day in the period, ascending.
// Days with no completed shifts appear with zero hours rather than being
// omitted, so chart x-axes stay contiguous. Shifts bucket by their calendar
// day in the period's location, regardless of the location their times
// were rehydrated in.
func DailyTotals(shifts []Shift, period Period) []DailyTotal {
	period = NormalizePeriod(period)
	loc := period.Start.Location()

	minutesByDay := make(map[string]int)
	for _, s := range ShiftsIn(period, shifts) {
		if s.Status != StatusCompleted {
			continue
		}
		minutesByDay[s.ScheduledStart.In(loc).Format(dailyKey)] += s.PaidMinutes
	}

	days := period.Days()
	totals := make([]DailyTotal, 0, len(days))
	for _, day := range days {
		totals = append(totals, DailyTotal{Date: day, Hours: minutesToHours(minutesByDay[day.Format(dailyKey)])})
	}
	return totals
}
