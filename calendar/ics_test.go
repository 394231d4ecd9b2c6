package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/dali/life-analytics-srv/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var renderedAt = time.Date(2030, time.June, 1, 9, 30, 0, 0, time.UTC)

func TestRenderFeedEmptyDocument(t *testing.T) {
	feed := renderFeed(nil, nil, renderedAt)

	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(feed, "END:VCALENDAR\r\n"))
	assert.Contains(t, feed, "VERSION:2.0\r\n")
	assert.Contains(t, feed, "PRODID:-//Life Analytics 2.0//EN\r\n")
	assert.Contains(t, feed, "CALSCALE:GREGORIAN\r\n")
	assert.Contains(t, feed, "METHOD:PUBLISH\r\n")
	assert.Contains(t, feed, "X-WR-CALNAME:Life Analytics Events\r\n")
	assert.NotContains(t, feed, "BEGIN:VEVENT")
}

func TestRenderFeedEventBlock(t *testing.T) {
	end := at(16, 0)
	events := []types.CalendarEvent{{
		ID:          7,
		Title:       "Team sync",
		Description: "Weekly status",
		Category:    "WORK",
		StartTime:   at(14, 0),
		EndTime:     &end,
		Location:    "Room 2",
	}}

	feed := renderFeed(events, nil, renderedAt)

	assert.Contains(t, feed, "UID:event-7@lifeanalytics.local\r\n")
	assert.Contains(t, feed, "DTSTAMP:20300601T093000\r\n")
	assert.Contains(t, feed, "DTSTART:20300610T140000\r\n")
	assert.Contains(t, feed, "DTEND:20300610T160000\r\n")
	assert.Contains(t, feed, "SUMMARY:Team sync\r\n")
	assert.Contains(t, feed, "DESCRIPTION:Weekly status\r\n")
	assert.Contains(t, feed, "LOCATION:Room 2\r\n")
	assert.Contains(t, feed, "CATEGORIES:WORK\r\n")
}

func TestRenderFeedOmitsAbsentFields(t *testing.T) {
	events := []types.CalendarEvent{{
		ID:        1,
		Title:     "Reminder",
		StartTime: at(14, 0),
	}}

	feed := renderFeed(events, nil, renderedAt)

	assert.NotContains(t, feed, "DTEND:")
	assert.NotContains(t, feed, "DESCRIPTION:")
	assert.NotContains(t, feed, "LOCATION:")
	assert.NotContains(t, feed, "CATEGORIES:")
}

func TestRenderFeedExamBlock(t *testing.T) {
	duration := 90
	exams := []types.Exam{{
		ID:              7,
		CourseName:      "Algorithms",
		Title:           "Final",
		DateTime:        at(9, 0),
		Location:        "Hall B",
		DurationMinutes: &duration,
	}}

	feed := renderFeed(nil, exams, renderedAt)

	assert.Contains(t, feed, "UID:exam-7@lifeanalytics.local\r\n")
	assert.Contains(t, feed, "DTSTART:20300610T090000\r\n")
	assert.Contains(t, feed, "DTEND:20300610T103000\r\n")
	assert.Contains(t, feed, "SUMMARY:EXAM: Final (Algorithms)\r\n")
	assert.Contains(t, feed, "CATEGORIES:EXAM\r\n")
}

func TestRenderFeedExamWithoutCourseOrDuration(t *testing.T) {
	exams := []types.Exam{{
		ID:       2,
		Title:    "Quiz 1",
		DateTime: at(9, 0),
	}}

	feed := renderFeed(nil, exams, renderedAt)

	assert.Contains(t, feed, "SUMMARY:EXAM: Quiz 1\r\n")
	assert.NotContains(t, feed, "(")
	assert.NotContains(t, feed, "DTEND:")
}

func TestFeedUIDKindPrefixPreventsCollision(t *testing.T) {
	assert.NotEqual(t, feedUID("event", 5), feedUID("exam", 5))
	assert.Equal(t, "event-5@lifeanalytics.local", feedUID("event", 5))
}

func TestEscapeText(t *testing.T) {
	input := `back\slash, comma; semi` + "\nnewline"
	want := `back\\slash\, comma\; semi\nnewline`
	assert.Equal(t, want, escapeText(input))
}

func TestEscapeTextBackslashFirst(t *testing.T) {
	// A pre-escaped comma must come out with its backslash doubled and the
	// comma escaped once, not double-escaped.
	assert.Equal(t, `a\\\,b`, escapeText(`a\,b`))
}

func TestRenderFeedPreservesSuppliedOrder(t *testing.T) {
	end1, end2 := at(11, 0), at(16, 0)
	events := []types.CalendarEvent{
		{ID: 1, Title: "Morning", StartTime: at(10, 0), EndTime: &end1},
		{ID: 2, Title: "Afternoon", StartTime: at(15, 0), EndTime: &end2},
	}
	exams := []types.Exam{
		{ID: 3, Title: "Early exam", DateTime: at(8, 0)},
	}

	feed := renderFeed(events, exams, renderedAt)

	first := strings.Index(feed, "UID:event-1@")
	second := strings.Index(feed, "UID:event-2@")
	third := strings.Index(feed, "UID:exam-3@")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)

	// Events in supplied order, exams after all events even when an exam
	// starts earlier. No cross-sorting.
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}
