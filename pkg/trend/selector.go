package trend

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

type Phase int

const (
	PHASE_NONE Phase = iota
	PHASE_PICKING_START
	PHASE_PICKING_END
)

func (p Phase) String() string {
	switch p {
	case PHASE_PICKING_START:
		return "start"
	case PHASE_PICKING_END:
		return "end"
	}
	return "none"
}

func ParsePhase(s string) (Phase, error) {
	switch s {
	case "start":
		return PHASE_PICKING_START, nil
	case "end":
		return PHASE_PICKING_END, nil
	}
	return PHASE_NONE, fmt.Errorf("unknown picking phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type State int

const (
	STATE_IDLE State = iota
	STATE_VIEWING
	STATE_PICKING_START
	STATE_PICKING_END
)

func (s State) String() string {
	switch s {
	case STATE_VIEWING:
		return "viewing"
	case STATE_PICKING_START:
		return "picking_start"
	case STATE_PICKING_END:
		return "picking_end"
	}
	return "idle"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ErrRangeUnavailable = errors.New("range is not available for this chart")
	ErrNotCustom        = errors.New("dates can only be picked for a custom range")
	ErrNotPicking       = errors.New("no date is being picked")
)

const INVALID_DATE_TITLE = "Invalid Date"

// InvalidDateError is the blocking alert raised when a picked date is out of bounds.
type InvalidDateError struct {
	Phase   Phase
	Date    civil.Date
	Title   string
	Message string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Title, e.Message, e.Date)
}

// Selection is a read-only snapshot of a Selector.
type Selection struct {
	State           State     `json:"state"`
	Range           RangeName `json:"range"`
	Dates           DateRange `json:"dates"`
	Phase           Phase     `json:"phase"`
	CalendarVisible bool      `json:"calendar_visible"`
}

// Selector tracks the range picked for one chart and the custom date picking flow.
// It is not safe for concurrent use; its owner serializes events.
type Selector struct {
	profile  Profile
	now      func() time.Time
	rng      RangeName
	dates    DateRange
	phase    Phase
	calendar bool
}

func NewSelector(profile Profile, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	s := &Selector{
		profile: profile,
		now:     now,
	}
	if profile.DefaultRange != "" {
		if err := s.Select(profile.DefaultRange); err != nil {
			s.rng = ""
		}
	}
	return s
}

func (s *Selector) Profile() Profile {
	return s.profile
}

func (s *Selector) State() State {
	switch {
	case s.rng == "":
		return STATE_IDLE
	case s.phase == PHASE_PICKING_START:
		return STATE_PICKING_START
	case s.phase == PHASE_PICKING_END:
		return STATE_PICKING_END
	}
	return STATE_VIEWING
}

func (s *Selector) Range() RangeName {
	return s.rng
}

func (s *Selector) Dates() DateRange {
	return s.dates
}

func (s *Selector) Phase() Phase {
	return s.phase
}

func (s *Selector) CalendarVisible() bool {
	return s.calendar
}

func (s *Selector) Selection() Selection {
	return Selection{
		State:           s.State(),
		Range:           s.rng,
		Dates:           s.dates,
		Phase:           s.phase,
		CalendarVisible: s.calendar,
	}
}

// Select switches to a range. Named ranges are resolved against now and abandon
// any custom picking in progress; custom keeps the current dates until edited.
func (s *Selector) Select(r RangeName) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRange, r)
	}
	if !s.profile.Allows(r) {
		return fmt.Errorf("%w: %s", ErrRangeUnavailable, r)
	}
	if r != RANGE_CUSTOM {
		dates, err := Resolve(r, s.now())
		if err != nil {
			return err
		}
		s.dates = dates
	} else {
		s.dates = clampToToday(s.dates, civil.DateOf(s.now()))
	}
	s.rng = r
	s.phase = PHASE_NONE
	s.calendar = false
	return nil
}

// clampToToday keeps prior custom dates that are still pickable. A named range
// may end after today (month, year), so the end is pulled back to today and the
// start never passes the end.
func clampToToday(dates DateRange, today civil.Date) DateRange {
	if dates.IsZero() {
		return DateRange{Start: today, End: today}
	}
	if dates.End.After(today) {
		dates.End = today
	}
	if dates.Start.After(dates.End) {
		dates.Start = dates.End
	}
	return dates
}

// OpenPicker starts picking one endpoint of the custom range and shows the calendar.
func (s *Selector) OpenPicker(p Phase) error {
	if s.rng != RANGE_CUSTOM {
		return ErrNotCustom
	}
	if p != PHASE_PICKING_START && p != PHASE_PICKING_END {
		return fmt.Errorf("cannot open picker for phase %s", p)
	}
	s.phase = p
	s.calendar = true
	return nil
}

// Pick applies a calendar day to the endpoint being picked. A valid start moves
// straight on to picking the end; a valid end completes the custom range.
func (s *Selector) Pick(d civil.Date) error {
	today := civil.DateOf(s.now())
	switch s.phase {
	case PHASE_PICKING_START:
		if d.Before(MinDate) || d.After(s.dates.End) || d.After(today) {
			return &InvalidDateError{
				Phase:   s.phase,
				Date:    d,
				Title:   INVALID_DATE_TITLE,
				Message: "Start date must be within the allowed range.",
			}
		}
		s.dates.Start = d
		s.phase = PHASE_PICKING_END
		s.calendar = true
		return nil
	case PHASE_PICKING_END:
		if d.Before(s.dates.Start) || d.After(today) {
			return &InvalidDateError{
				Phase:   s.phase,
				Date:    d,
				Title:   INVALID_DATE_TITLE,
				Message: "End date cannot be earlier than start date or later than today.",
			}
		}
		s.dates.End = d
		s.phase = PHASE_NONE
		s.calendar = false
		return nil
	}
	return ErrNotPicking
}

// Dismiss closes the calendar without committing anything.
func (s *Selector) Dismiss() {
	s.phase = PHASE_NONE
	s.calendar = false
}
