package calendar

import (
	"sort"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

// Buckets maps each calendar day to the occurrences touching it.
type Buckets map[models.CalendarDate][]models.BucketEntry

// Bucket places every occurrence on each day from its start to its inclusive
// end. Days are walked on the (year, month, day) triple.
func Bucket(events []models.EventOccurrence) Buckets {
	out := make(Buckets)
	for _, event := range events {
		start, end := occurrenceSpan(event)
		out.place(event, start, end)
	}
	return out
}

// BucketWithin is Bucket restricted to the days of w. Only the part of each
// span inside w is walked; start and end flags still refer to the whole span.
func BucketWithin(events []models.EventOccurrence, w Window) Buckets {
	out := make(Buckets)
	for _, event := range events {
		start, end := occurrenceSpan(event)
		if !w.Overlaps(start, end) {
			continue
		}
		from, to := start, end
		if from.Before(w.Start) {
			from = w.Start
		}
		if to.After(w.End) {
			to = w.End
		}
		out.place(event, from, to)
	}
	return out
}

func occurrenceSpan(event models.EventOccurrence) (models.CalendarDate, models.CalendarDate) {
	start, end := event.EventDate, event.LastDate()
	if end.Before(start) {
		end = start
	}
	return start, end
}

// place appends an entry for event on every day of [from, to].
func (b Buckets) place(event models.EventOccurrence, from, to models.CalendarDate) {
	start, end := occurrenceSpan(event)
	multi := !start.Equal(end)
	for d := from; !d.After(to); d = d.Next() {
		b[d] = append(b[d], models.BucketEntry{
			Event:        event,
			IsMultiDay:   multi,
			IsEventStart: d.Equal(start),
			IsEventEnd:   d.Equal(end),
		})
	}
}

// Keyed renders the buckets keyed by their canonical YYYY-MM-DD string.
func (b Buckets) Keyed() map[string][]models.BucketEntry {
	out := make(map[string][]models.BucketEntry, len(b))
	for d, entries := range b {
		out[d.String()] = entries
	}
	return out
}

// Dates returns the bucket days in ascending order.
func (b Buckets) Dates() []models.CalendarDate {
	dates := make([]models.CalendarDate, 0, len(b))
	for d := range b {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// SortOccurrences orders occurrences by start date, then origin id.
func SortOccurrences(events []models.EventOccurrence) {
	sort.SliceStable(events, func(i, j int) bool {
		if c := events[i].EventDate.Compare(events[j].EventDate); c != 0 {
			return c < 0
		}
		return events[i].OriginEventID < events[j].OriginEventID
	})
}

// FilterOverlapping keeps occurrences whose span touches the window.
func FilterOverlapping(events []models.EventOccurrence, w Window) []models.EventOccurrence {
	out := make([]models.EventOccurrence, 0, len(events))
	for _, event := range events {
		if w.Overlaps(event.EventDate, event.LastDate()) {
			out = append(out, event)
		}
	}
	return out
}
