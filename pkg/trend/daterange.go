package trend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type RangeName string

const (
	RANGE_TODAY  RangeName = "today"
	RANGE_WEEK   RangeName = "week"
	RANGE_MONTH  RangeName = "month"
	RANGE_YEAR   RangeName = "year"
	RANGE_CUSTOM RangeName = "custom"
)

// Earliest date any custom range may start at.
var MinDate = civil.Date{Year: 2022, Month: time.January, Day: 1}

var (
	ErrUnknownRange = errors.New("unknown date range")
	ErrCustomRange  = errors.New("custom ranges are supplied by the caller")
	ErrInvalidRange = errors.New("invalid date range")
)

func AllRanges() []RangeName {
	return []RangeName{RANGE_TODAY, RANGE_WEEK, RANGE_MONTH, RANGE_YEAR, RANGE_CUSTOM}
}

func ParseRangeName(s string) (RangeName, error) {
	r := RangeName(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
	}
	return r, nil
}

func (r RangeName) Valid() bool {
	switch r {
	case RANGE_TODAY, RANGE_WEEK, RANGE_MONTH, RANGE_YEAR, RANGE_CUSTOM:
		return true
	}
	return false
}

// Title is the label of the range button ("Today", "Week", ...).
func (r RangeName) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

type DateRange struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.Start == civil.Date{} && r.End == civil.Date{}
}

// Days counts calendar days in the range, both ends included.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return r.End.DaysSince(r.Start) + 1
}

func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// Resolve computes the concrete dates of a named range as seen at now.
// Custom ranges are never resolved here, see ValidateCustom.
func Resolve(name RangeName, now time.Time) (DateRange, error) {
	today := civil.DateOf(now)
	switch name {
	case RANGE_TODAY:
		return DateRange{Start: today, End: today}, nil
	case RANGE_WEEK:
		return DateRange{Start: today.AddDays(-6), End: today}, nil
	case RANGE_MONTH:
		// day 0 of the next month is the last day of this one
		last := time.Date(today.Year, today.Month+1, 0, 0, 0, 0, 0, time.UTC)
		return DateRange{
			Start: civil.Date{Year: today.Year, Month: today.Month, Day: 1},
			End:   civil.DateOf(last),
		}, nil
	case RANGE_YEAR:
		return DateRange{
			Start: civil.Date{Year: today.Year, Month: time.January, Day: 1},
			End:   civil.Date{Year: today.Year, Month: time.December, Day: 31},
		}, nil
	case RANGE_CUSTOM:
		return DateRange{}, ErrCustomRange
	}
	return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownRange, name)
}

// ValidateCustom checks MinDate <= start <= end <= today.
func ValidateCustom(r DateRange, now time.Time) error {
	today := civil.DateOf(now)
	switch {
	case !r.Start.IsValid() || !r.End.IsValid():
		return fmt.Errorf("%w: malformed dates", ErrInvalidRange)
	case r.Start.Before(MinDate):
		return fmt.Errorf("%w: start %s is before %s", ErrInvalidRange, r.Start, MinDate)
	case r.End.Before(r.Start):
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, r.End, r.Start)
	case r.End.After(today):
		return fmt.Errorf("%w: end %s is after today %s", ErrInvalidRange, r.End, today)
	}
	return nil
}
