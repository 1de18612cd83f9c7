package service

import (
	"context"
	"fmt"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

var rruleWeekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Feed renders published events as an iCalendar document. Recurring events
// are emitted once with an RRULE; year limits non-recurring events to that
// year when non-zero.
func (s *CalendarService) Feed(ctx context.Context, year int) ([]byte, error) {
	filter := models.CalendarFilter{}
	if year != 0 {
		window, err := viewWindow(year, 0)
		if err != nil {
			return nil, err
		}
		filter.WindowStart = &window.Start
		filter.WindowEnd = &window.End
	}
	events, err := s.repo.ListBase(ctx, filter)
	if err != nil {
		return nil, s.storageError(err, "failed to load calendar feed")
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//sma-bulletin-api//calendar//EN")
	cal.SetName(s.cfg.FeedName)
	cal.SetXWRCalName(s.cfg.FeedName)

	stamp := s.now()
	for i := range events {
		event := &events[i]
		vevent := cal.AddEvent(fmt.Sprintf("calendar-event-%d@sma-bulletin-api", event.ID))
		vevent.SetDtStampTime(stamp)
		vevent.SetModifiedAt(event.UpdatedAt)
		vevent.SetSummary(event.Title)
		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
		if event.Location != nil && *event.Location != "" {
			vevent.SetLocation(*event.Location)
		}
		vevent.SetAllDayStartAt(event.EventDate.Time())
		// DTEND is exclusive for all-day events.
		vevent.SetAllDayEndAt(event.LastDate().AddDays(1).Time())
		if rule := recurrenceRule(event); rule != "" {
			vevent.SetProperty(ical.ComponentPropertyRrule, rule)
		}
	}
	return []byte(cal.Serialize()), nil
}

// recurrenceRule encodes the expansion semantics as an RRULE. Monthly events
// on day 29-31 pick the last existing day among 28..D so short months clamp
// instead of being skipped.
func recurrenceRule(event *models.CalendarEvent) string {
	if !event.IsRecurring || event.RecurrencePattern == nil {
		return ""
	}
	origin := event.EventDate
	var opt rrule.ROption
	switch *event.RecurrencePattern {
	case models.RecurrenceYearly:
		opt = rrule.ROption{Freq: rrule.YEARLY, Bymonth: []int{origin.Month}, Bymonthday: []int{origin.Day}}
	case models.RecurrenceMonthly:
		opt = rrule.ROption{Freq: rrule.MONTHLY, Bymonthday: []int{origin.Day}}
		if origin.Day > 28 {
			days := make([]int, 0, origin.Day-27)
			for d := 28; d <= origin.Day; d++ {
				days = append(days, d)
			}
			opt.Bymonthday = days
			opt.Bysetpos = []int{-1}
		}
	case models.RecurrenceWeekly:
		opt = rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rruleWeekdays[origin.Weekday()]}}
	default:
		return ""
	}
	return opt.RRuleString()
}
