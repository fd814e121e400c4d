package core

// CategoryTotal is an amount aggregated for one stored category spelling.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthlySummary aggregates a calendar month's expenses per category plus a
// grand total. Currency is an opaque display label attached by the caller;
// no conversion is performed.
type MonthlySummary struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Currency   string          `json:"currency"`
	GrandTotal float64         `json:"grand_total"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// MonthRange returns the inclusive [first day, last day] range of a calendar
// month. The last day is the first day of the following month minus one day,
// which handles every month length, leap-year February and the December to
// January rollover.
func MonthRange(year, month int) (first, last Date) {
	first = NewDate(year, month, 1)
	last = Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

// ValidateSummaryPeriod bounds-checks a summary request's year and month.
func ValidateSummaryPeriod(year, month int) error {
	if year < 2000 || year > 2100 {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}
