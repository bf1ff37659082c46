package filter

import "time"

const dateFormat = time.RFC3339

// Date filters on a single day, defaulting to the start of today.
type Date struct {
	id, httpID, name string
	clock            Clock
	current          time.Time
}

// NewDate returns a date filter on the transaction start.
func NewDate(clock Clock) *Date {
	d := Date{
		id:     "timestamp",
		httpID: "Date",
		name:   "Date",
		clock:  clock,
	}
	d.Reset()

	return &d
}

func (d *Date) ID() string     { return d.id }
func (d *Date) HTTPID() string { return d.httpID }
func (d *Date) Name() string   { return d.name }
func (d *Date) Type() Type     { return TypeDate }
func (d *Date) IsAll() bool    { return false }

// Default returns the start of the current day.
func (d *Date) Default() time.Time {
	return StartOfDay(d.clock.now())
}

// Current returns the selected day.
func (d *Date) Current() time.Time {
	return d.current
}

func (d *Date) Reset() {
	d.current = d.Default()
}

func (d *Date) Set(v any) error {
	t, ok := v.(time.Time)
	if !ok {
		return ErrInvalidValue
	}
	d.current = t

	return nil
}

func (d *Date) Encode(vv Values) {
	vv[d.httpID] = d.current.UTC().Format(dateFormat)
}

func (d *Date) Display() string {
	return d.current.Format(time.DateOnly)
}

// Range is an interval of time.
type Range struct {
	Start, End time.Time
}

// DateRange filters on an interval, defaulting to the start of the year until now.
type DateRange struct {
	id, name         string
	startKey, endKey string
	clock            Clock
	current          Range
}

// NewDateRange returns a date range filter.
func NewDateRange(clock Clock) *DateRange {
	d := DateRange{
		id:       "dateRange",
		name:     "Period",
		startKey: "StartDateTime",
		endKey:   "EndDateTime",
		clock:    clock,
	}
	d.Reset()

	return &d
}

func (d *DateRange) ID() string     { return d.id }
func (d *DateRange) HTTPID() string { return d.startKey }
func (d *DateRange) Name() string   { return d.name }
func (d *DateRange) Type() Type     { return TypeDateRange }
func (d *DateRange) IsAll() bool    { return false }

// Default returns the interval from the start of the year until now.
func (d *DateRange) Default() Range {
	now := d.clock.now()
	return Range{Start: StartOfYear(now), End: now}
}

// Current returns the selected interval.
func (d *DateRange) Current() Range {
	return d.current
}

func (d *DateRange) Reset() {
	d.current = d.Default()
}

func (d *DateRange) Set(v any) error {
	r, ok := v.(Range)
	if !ok || r.End.Before(r.Start) {
		return ErrInvalidValue
	}
	d.current = r

	return nil
}

func (d *DateRange) Encode(vv Values) {
	vv[d.startKey] = d.current.Start.UTC().Format(dateFormat)
	vv[d.endKey] = d.current.End.UTC().Format(dateFormat)
}

func (d *DateRange) Display() string {
	return d.current.Start.Format(time.DateOnly) + " - " + d.current.End.Format(time.DateOnly)
}
