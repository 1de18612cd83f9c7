// Package calendar expands recurring events into dated occurrences and groups
// occurrences onto calendar days. Everything here is pure and deterministic.
package calendar

import (
	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start models.CalendarDate
	End   models.CalendarDate
}

// YearWindow returns the window covering a year, or a single month of it when
// month is non-zero.
func YearWindow(year, month int) (Window, error) {
	if month == 0 {
		return Window{
			Start: models.CalendarDate{Year: year, Month: 1, Day: 1},
			End:   models.CalendarDate{Year: year, Month: 12, Day: 31},
		}, nil
	}
	first, err := models.NewCalendarDate(year, month, 1)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: first, End: first.LastOfMonth()}, nil
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d models.CalendarDate) bool {
	return d.Between(w.Start, w.End)
}

// Overlaps reports whether [start, end] shares at least one day with the window.
func (w Window) Overlaps(start, end models.CalendarDate) bool {
	return !end.Before(w.Start) && !start.After(w.End)
}

// Expand returns the occurrences of base whose start date lies in
// [windowStart, windowEnd]. A non-recurring event, or one with a pattern the
// expander does not know, comes back unchanged as a single occurrence.
func Expand(base models.CalendarEvent, windowStart, windowEnd models.CalendarDate) []models.EventOccurrence {
	if !base.IsRecurring || base.RecurrencePattern == nil {
		return []models.EventOccurrence{asOccurrence(base)}
	}
	w := Window{Start: windowStart, End: windowEnd}
	if w.End.Before(w.Start) {
		return nil
	}

	var starts []models.CalendarDate
	switch *base.RecurrencePattern {
	case models.RecurrenceYearly:
		starts = yearlyStarts(base.EventDate, w)
	case models.RecurrenceMonthly:
		starts = monthlyStarts(base.EventDate, w)
	case models.RecurrenceWeekly:
		starts = weeklyStarts(base.EventDate, w)
	default:
		return []models.EventOccurrence{asOccurrence(base)}
	}

	span := base.SpanDays()
	out := make([]models.EventOccurrence, 0, len(starts))
	for _, start := range starts {
		out = append(out, instanceAt(base, start, span))
	}
	return out
}

// ExpandAll expands every event and concatenates the results in input order.
// Recurring events are expanded from w.Start minus their span, so an
// occurrence that starts before w and runs into it is included. Callers trim
// with FilterOverlapping or BucketWithin.
func ExpandAll(events []models.CalendarEvent, w Window) []models.EventOccurrence {
	out := make([]models.EventOccurrence, 0, len(events))
	for _, event := range events {
		from := w.Start
		if event.IsRecurring {
			lookback := event.SpanDays()
			if lookback > models.MaxEventSpanDays {
				lookback = models.MaxEventSpanDays
			}
			from = w.Start.AddDays(-lookback)
		}
		out = append(out, Expand(event, from, w.End)...)
	}
	return out
}

// yearlyStarts emits (Y, month, day) for every year of the window. A February 29
// origin produces nothing in common years.
func yearlyStarts(origin models.CalendarDate, w Window) []models.CalendarDate {
	var out []models.CalendarDate
	for y := w.Start.Year; y <= w.End.Year; y++ {
		d := models.CalendarDate{Year: y, Month: origin.Month, Day: origin.Day}
		if d.Valid() && w.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// monthlyStarts steps one month at a time and clamps the origin day to the
// last day of shorter months.
func monthlyStarts(origin models.CalendarDate, w Window) []models.CalendarDate {
	var out []models.CalendarDate
	y, m := w.Start.Year, w.Start.Month
	for y < w.End.Year || (y == w.End.Year && m <= w.End.Month) {
		day := origin.Day
		if last := models.DaysInMonth(y, m); day > last {
			day = last
		}
		d := models.CalendarDate{Year: y, Month: m, Day: day}
		if w.Contains(d) {
			out = append(out, d)
		}
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return out
}

// weeklyStarts finds the first day on or after the window start sharing the
// origin weekday and then steps by seven days.
func weeklyStarts(origin models.CalendarDate, w Window) []models.CalendarDate {
	offset := (int(origin.Weekday()) - int(w.Start.Weekday()) + 7) % 7
	var out []models.CalendarDate
	for d := w.Start.AddDays(offset); !d.After(w.End); d = d.AddDays(7) {
		out = append(out, d)
	}
	return out
}

func asOccurrence(event models.CalendarEvent) models.EventOccurrence {
	return models.EventOccurrence{CalendarEvent: event, OriginEventID: event.ID}
}

func instanceAt(base models.CalendarEvent, start models.CalendarDate, span int) models.EventOccurrence {
	inst := base
	inst.EventDate = start
	if base.EndDate != nil {
		end := start.AddDays(span)
		inst.EndDate = &end
	}
	if base.Location != nil {
		loc := *base.Location
		inst.Location = &loc
	}
	return models.EventOccurrence{
		CalendarEvent:        inst,
		OriginEventID:        base.ID,
		IsRecurrenceInstance: true,
	}
}
