// Package calendar pulls read-only events and reminders from a CalDAV
// account.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

// parseVEvents extracts VEVENT blocks from iCalendar text. Blocks without
// a SUMMARY are dropped.
func parseVEvents(icalText, calendarName string) []model.CalendarEvent {
	var events []model.CalendarEvent

	blocks := strings.Split(icalText, "BEGIN:VEVENT")
	for i := 1; i < len(blocks); i++ {
		block, _, _ := strings.Cut(blocks[i], "END:VEVENT")

		summary := icalField(block, "SUMMARY")
		if summary == "" {
			continue
		}

		uid := icalField(block, "UID")
		if uid == "" {
			uid = fmt.Sprintf("event-%d", i)
		}

		start, okStart := parseICalDate(icalField(block, "DTSTART"))
		end, okEnd := parseICalDate(icalField(block, "DTEND"))
		if !okStart {
			start = time.Now()
		}
		if !okEnd {
			end = start
		}

		events = append(events, model.CalendarEvent{
			UID:          uid,
			Title:        summary,
			StartDate:    start,
			EndDate:      end,
			Description:  icalField(block, "DESCRIPTION"),
			Location:     icalField(block, "LOCATION"),
			CalendarName: calendarName,
		})
	}

	return events
}

// parseVTodos extracts VTODO blocks from iCalendar text.
func parseVTodos(icalText, calendarName string) []model.Reminder {
	var reminders []model.Reminder

	blocks := strings.Split(icalText, "BEGIN:VTODO")
	for i := 1; i < len(blocks); i++ {
		block, _, _ := strings.Cut(blocks[i], "END:VTODO")

		summary := icalField(block, "SUMMARY")
		if summary == "" {
			continue
		}

		uid := icalField(block, "UID")
		if uid == "" {
			uid = fmt.Sprintf("todo-%d", i)
		}

		var due *time.Time
		if d, ok := parseICalDate(icalField(block, "DUE")); ok {
			due = &d
		}

		reminders = append(reminders, model.Reminder{
			UID:          uid,
			Title:        summary,
			DueDate:      due,
			Completed:    icalField(block, "STATUS") == "COMPLETED",
			Notes:        icalField(block, "DESCRIPTION"),
			CalendarName: calendarName,
		})
	}

	return reminders
}

// icalField returns the value of a property line, stripping any
// parameters (DTSTART;VALUE=DATE:20210101 yields 20210101).
func icalField(block, field string) string {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		rest, ok := cutPrefixFold(line, field)
		if !ok {
			continue
		}
		if len(rest) == 0 || (rest[0] != ':' && rest[0] != ';') {
			continue
		}
		value := rest[1:]
		if i := strings.LastIndexByte(value, ':'); i >= 0 {
			value = value[i+1:]
		}
		return strings.TrimSpace(value)
	}
	return ""
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// parseICalDate accepts the two shapes calendars emit in practice,
// YYYYMMDD for all-day values and YYYYMMDDTHHMMSSZ for timestamps.
func parseICalDate(s string) (time.Time, bool) {
	switch {
	case len(s) == 8:
		t, err := time.Parse("20060102", s)
		return t, err == nil
	case len(s) >= 15:
		t, err := time.Parse("20060102T150405", s[:15])
		return t.UTC(), err == nil
	}
	return time.Time{}, false
}
