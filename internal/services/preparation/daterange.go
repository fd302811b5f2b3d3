package preparation

import (
	"fmt"
	"strings"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
)

const DateLayout = "2006-01-02"

// DateError reports a query parameter that is not a YYYY-MM-DD calendar date.
type DateError struct {
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("Invalid %s format. Use YYYY-MM-DD", e.Field)
}

// DateRange is an inclusive range of calendar dates in UTC. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange parses the optional date_from/date_to query values. Empty
// strings leave the bound open. No ordering check is made: a start after the
// end simply matches nothing.
func ParseDateRange(from, to string) (DateRange, error) {
	var rng DateRange
	var err error
	if rng.From, err = parseDate("date_from", from); err != nil {
		return DateRange{}, err
	}
	if rng.To, err = parseDate("date_to", to); err != nil {
		return DateRange{}, err
	}
	return rng, nil
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, &DateError{Field: field, Value: value}
	}
	return &t, nil
}

// Bounds converts the range to a half-open timestamp interval [from, toExclusive).
func (r DateRange) Bounds() (from, toExclusive *time.Time) {
	if r.From != nil {
		f := *r.From
		from = &f
	}
	if r.To != nil {
		t := r.To.AddDate(0, 0, 1)
		toExclusive = &t
	}
	return from, toExclusive
}

func (r DateRange) Contains(t time.Time) bool {
	from, to := r.Bounds()
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

// Echo renders the range the way the report returns it.
func (r DateRange) Echo() models.PreparationDateRange {
	var echo models.PreparationDateRange
	if r.From != nil {
		s := r.From.Format(DateLayout)
		echo.DateFrom = &s
	}
	if r.To != nil {
		s := r.To.Format(DateLayout)
		echo.DateTo = &s
	}
	return echo
}
