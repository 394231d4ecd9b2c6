package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dali/life-analytics-srv/types"
)

// Instants are written in local time with no zone qualifier; the whole feed
// lives in a single implicit zone.
const icsTimeLayout = "20060102T150405"

const uidDomain = "lifeanalytics.local"

// renderFeed produces the complete iCalendar document for the given events
// and exams. Records are emitted in the order supplied, events first, exams
// second; the stores already provide chronological order and nothing is
// re-sorted here. The document is syntactically complete even with zero
// records.
func renderFeed(events []types.CalendarEvent, exams []types.Exam, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Life Analytics 2.0//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString("X-WR-CALNAME:Life Analytics Events\r\n")

	for i := range events {
		writeEventBlock(&b, &events[i], generatedAt)
	}
	for i := range exams {
		writeExamBlock(&b, &exams[i], generatedAt)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func writeEventBlock(b *strings.Builder, event *types.CalendarEvent, generatedAt time.Time) {
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s\r\n", feedUID("event", event.ID))
	fmt.Fprintf(b, "DTSTAMP:%s\r\n", generatedAt.Format(icsTimeLayout))
	fmt.Fprintf(b, "DTSTART:%s\r\n", event.StartTime.Format(icsTimeLayout))
	if event.EndTime != nil {
		fmt.Fprintf(b, "DTEND:%s\r\n", event.EndTime.Format(icsTimeLayout))
	}
	fmt.Fprintf(b, "SUMMARY:%s\r\n", escapeText(event.Title))
	if event.Description != "" {
		fmt.Fprintf(b, "DESCRIPTION:%s\r\n", escapeText(event.Description))
	}
	if event.Location != "" {
		fmt.Fprintf(b, "LOCATION:%s\r\n", escapeText(event.Location))
	}
	if event.Category != "" {
		fmt.Fprintf(b, "CATEGORIES:%s\r\n", escapeText(event.Category))
	}
	b.WriteString("END:VEVENT\r\n")
}

func writeExamBlock(b *strings.Builder, exam *types.Exam, generatedAt time.Time) {
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s\r\n", feedUID("exam", exam.ID))
	fmt.Fprintf(b, "DTSTAMP:%s\r\n", generatedAt.Format(icsTimeLayout))
	fmt.Fprintf(b, "DTSTART:%s\r\n", exam.DateTime.Format(icsTimeLayout))
	if exam.DurationMinutes != nil {
		end := exam.DateTime.Add(time.Duration(*exam.DurationMinutes) * time.Minute)
		fmt.Fprintf(b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
	}

	summary := "EXAM: " + exam.Title
	if exam.CourseName != "" {
		summary += " (" + exam.CourseName + ")"
	}
	fmt.Fprintf(b, "SUMMARY:%s\r\n", escapeText(summary))

	if exam.Description != "" {
		fmt.Fprintf(b, "DESCRIPTION:%s\r\n", escapeText(exam.Description))
	}
	if exam.Location != "" {
		fmt.Fprintf(b, "LOCATION:%s\r\n", escapeText(exam.Location))
	}
	b.WriteString("CATEGORIES:EXAM\r\n")
	b.WriteString("END:VEVENT\r\n")
}

// feedUID is deterministic per record and cannot collide across kinds, so an
// event and an exam sharing a numeric id still export distinct UIDs.
func feedUID(kind string, id int64) string {
	return fmt.Sprintf("%s-%d@%s", kind, id, uidDomain)
}

// escapeText escapes free text for an iCalendar content line. The backslash
// substitution must run first so the backslashes introduced by the later
// substitutions are not escaped again.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, ";", "\\;")
	text = strings.ReplaceAll(text, "\n", "\\n")
	return text
}
