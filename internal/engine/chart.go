package engine

import (
	"fmt"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// ApplyCharts adds tx to the monthly series and, for current-month
// transactions, to the weekly series. Each series updates at most one
// point; a transaction with no matching point is dropped for that series.
func ApplyCharts(chart *core.ChartData, tx core.Transaction, currentMonth core.MonthLabel) {
	month := core.MonthOfLabel(tx.Date)

	if month == currentMonth {
		if label, err := core.ParseDateLabel(tx.Date); err == nil {
			for i := range chart.ThisMonth {
				w, ok := core.ParseWeekRange(chart.ThisMonth[i].Name)
				if !ok || !w.Contains(label.Day) {
					continue
				}
				addToPoint(&chart.ThisMonth[i], tx.Amount)
				break
			}
		}
	}

	addToMonth(chart.Last3Months, month, tx.Amount)
	addToMonth(chart.ThisYear, month, tx.Amount)
}

func addToMonth(series []core.ChartDataPoint, month core.MonthLabel, amount decimal.Decimal) {
	for i := range series {
		if series[i].Name == string(month) {
			addToPoint(&series[i], amount)
			return
		}
	}
}

func addToPoint(p *core.ChartDataPoint, amount decimal.Decimal) {
	if amount.IsPositive() {
		p.Income = p.Income.Add(amount)
	} else {
		p.Expenses = p.Expenses.Add(amount.Abs())
	}
}

// GenerateSeries builds an empty series for period as of now:
// weekly ranges of the current month, the last three months, or January
// through the current month.
func GenerateSeries(period string, now time.Time) ([]core.ChartDataPoint, error) {
	switch period {
	case core.PeriodThisMonth:
		days := core.DaysIn(now)
		month := core.MonthOf(now)
		var out []core.ChartDataPoint
		for start := 1; start <= days; {
			end := min(start+6, days)
			w := core.WeekRange{StartMonth: month, StartDay: start, EndMonth: month, EndDay: end}
			out = append(out, emptyPoint(w.String()))
			start = end + 1
		}
		return out, nil

	case core.PeriodLast3Months:
		out := make([]core.ChartDataPoint, 0, 3)
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := 2; i >= 0; i-- {
			out = append(out, emptyPoint(string(core.MonthOf(first.AddDate(0, -i, 0)))))
		}
		return out, nil

	case core.PeriodThisYear:
		out := make([]core.ChartDataPoint, 0, int(now.Month()))
		for m := time.January; m <= now.Month(); m++ {
			out = append(out, emptyPoint(m.String()[:3]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownPeriod, period)
}

func emptyPoint(name string) core.ChartDataPoint {
	return core.ChartDataPoint{Name: name, Income: decimal.Zero, Expenses: decimal.Zero}
}

// rollSeries replaces series with the skeleton for period, carrying over
// the values of points whose names still appear.
func rollSeries(series []core.ChartDataPoint, period string, now time.Time) ([]core.ChartDataPoint, error) {
	skeleton, err := GenerateSeries(period, now)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]core.ChartDataPoint, len(series))
	for _, p := range series {
		existing[p.Name] = p
	}
	for i, p := range skeleton {
		if old, ok := existing[p.Name]; ok {
			skeleton[i] = old
		}
	}
	return skeleton, nil
}

// seriesStale reports whether any series in chart was built for a different
// month than the one containing now.
func seriesStale(chart *core.ChartData, now time.Time) bool {
	for _, s := range []struct {
		period string
		series []core.ChartDataPoint
	}{
		{core.PeriodThisMonth, chart.ThisMonth},
		{core.PeriodLast3Months, chart.Last3Months},
		{core.PeriodThisYear, chart.ThisYear},
	} {
		skeleton, err := GenerateSeries(s.period, now)
		if err != nil || len(skeleton) != len(s.series) {
			return true
		}
		for i := range skeleton {
			if skeleton[i].Name != s.series[i].Name {
				return true
			}
		}
	}
	return false
}
