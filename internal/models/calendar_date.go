package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CalendarDate is a wall-calendar day. It never carries a clock or a zone, so
// comparisons and keys cannot drift across midnight when the server and the
// database disagree about the local offset.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

const calendarDateLayout = "%04d-%02d-%02d"

// NewCalendarDate validates the components and returns the date.
func NewCalendarDate(year, month, day int) (CalendarDate, error) {
	d := CalendarDate{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, month, day)
	}
	return d, nil
}

// DateOf reads the year, month and day exactly as they appear on t. The value
// is not converted to UTC first.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseCalendarDate parses a YYYY-MM-DD string.
func ParseCalendarDate(raw string) (CalendarDate, error) {
	var y, m, d int
	if len(raw) != 10 || raw[4] != '-' || raw[7] != '-' {
		return CalendarDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	if _, err := fmt.Sscanf(raw, "%4d-%2d-%2d", &y, &m, &d); err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return NewCalendarDate(y, m, d)
}

// IsLeapYear reports whether year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the month, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// Valid reports whether the triple names an existing day.
func (d CalendarDate) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return d.Day <= DaysInMonth(d.Year, d.Month)
}

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String renders the canonical YYYY-MM-DD key.
func (d CalendarDate) String() string {
	return fmt.Sprintf(calendarDateLayout, d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports d < other.
func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }

// After reports d > other.
func (d CalendarDate) After(other CalendarDate) bool { return d.Compare(other) > 0 }

// Equal reports d == other.
func (d CalendarDate) Equal(other CalendarDate) bool { return d == other }

// Between reports start <= d <= end.
func (d CalendarDate) Between(start, end CalendarDate) bool {
	return !d.Before(start) && !d.After(end)
}

// Next returns the following calendar day, rolling month and year on the triple.
func (d CalendarDate) Next() CalendarDate {
	if d.Day < DaysInMonth(d.Year, d.Month) {
		return CalendarDate{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	}
	if d.Month < 12 {
		return CalendarDate{Year: d.Year, Month: d.Month + 1, Day: 1}
	}
	return CalendarDate{Year: d.Year + 1, Month: 1, Day: 1}
}

// AddDays shifts the date by n days (n may be negative).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return fromDayNumber(d.dayNumber() + n)
}

// DaysUntil returns other - d in whole days.
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return other.dayNumber() - d.dayNumber()
}

// Weekday returns the day of week.
func (d CalendarDate) Weekday() time.Weekday {
	// Day number 0 is 1970-01-01, a Thursday.
	w := (d.dayNumber() + 4) % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}

// Time returns midnight UTC of the date. Use it only at boundaries that insist
// on a time.Time (file formats, drivers), never for date arithmetic.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FirstOfMonth returns day 1 of the date's month.
func (d CalendarDate) FirstOfMonth() CalendarDate {
	return CalendarDate{Year: d.Year, Month: d.Month, Day: 1}
}

// LastOfMonth returns the final day of the date's month.
func (d CalendarDate) LastOfMonth() CalendarDate {
	return CalendarDate{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
}

// dayNumber counts days since 1970-01-01 on the proleptic Gregorian calendar.
func (d CalendarDate) dayNumber() int {
	y := d.Year
	m := d.Month
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func fromDayNumber(n int) CalendarDate {
	z := n + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if month > 12 {
		month -= 12
	}
	if month <= 2 {
		y++
	}
	return CalendarDate{Year: y, Month: month, Day: day}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" or a full RFC3339 timestamp, taking the
// date components as written.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) > 10 {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", raw, err)
		}
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns. Drivers hand DATE values back
// as time.Time at midnight in some zone; only the components are kept.
func (d *CalendarDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = CalendarDate{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CalendarDate", src)
	}
}

func (d *CalendarDate) scanString(raw string) error {
	if len(raw) > 10 {
		raw = raw[:10]
	}
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are sent as text so the driver never
// applies a session time zone.
func (d CalendarDate) Value() (driver.Value, error) {
	return d.String(), nil
}
