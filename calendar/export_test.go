package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/dali/life-analytics-srv/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflictsClean(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.CheckConflicts(at(14, 0), at(16, 0))
	require.NoError(t, err)

	assert.False(t, result.HasConflict)
	assert.Equal(t, at(14, 0), result.RequestedStart)
	assert.Equal(t, at(16, 0), result.RequestedEnd)
	assert.NotNil(t, result.Conflicts)
	assert.Empty(t, result.Conflicts)
	assert.NotNil(t, result.SuggestedAlternatives)
	assert.Empty(t, result.SuggestedAlternatives)
}

func TestCheckConflictsPopulatesConflictSet(t *testing.T) {
	end := at(16, 0)
	svc, _ := newTestService(t, types.CalendarEvent{
		Title:     "Team sync",
		Category:  "WORK",
		StartTime: at(14, 0),
		EndTime:   &end,
	})

	result, err := svc.CheckConflicts(at(15, 0), at(17, 0))
	require.NoError(t, err)

	require.True(t, result.HasConflict)
	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, "Team sync", conflict.Title)
	assert.Equal(t, "WORK", conflict.Category)
	assert.Equal(t, at(14, 0), conflict.StartTime)
	require.NotNil(t, conflict.EndTime)
	assert.Equal(t, at(16, 0), *conflict.EndTime)
	assert.NotEmpty(t, result.SuggestedAlternatives)
}

func TestCreateIfFreeBlockedByConflict(t *testing.T) {
	svc, mem := newTestService(t, types.CalendarEvent{
		Title:     "Existing",
		StartTime: at(14, 0),
		EndTime:   ptr(at(16, 0)),
	})

	created, conflicts, err := svc.CreateIfFree(&types.CalendarEvent{
		Title:     "New meeting",
		StartTime: at(15, 0),
		EndTime:   ptr(at(17, 0)),
	})
	require.NoError(t, err)
	assert.Nil(t, created)
	require.NotNil(t, conflicts)
	assert.True(t, conflicts.HasConflict)

	all, err := mem.FindAllEvents()
	require.NoError(t, err)
	assert.Len(t, all, 1, "nothing may be written on conflict")
}

func TestCreateIfFreeDefaultsMissingEnd(t *testing.T) {
	// Existing event 15:00-16:00. The candidate has no end; its effective
	// window 14:30-15:30 must still collide.
	svc, _ := newTestService(t, types.CalendarEvent{
		Title:     "Existing",
		StartTime: at(15, 0),
		EndTime:   ptr(at(16, 0)),
	})

	created, conflicts, err := svc.CreateIfFree(&types.CalendarEvent{
		Title:     "No end",
		StartTime: at(14, 30),
	})
	require.NoError(t, err)
	assert.Nil(t, created)
	require.NotNil(t, conflicts)
	assert.True(t, conflicts.HasConflict)
}

func TestCreateIfFreeCreates(t *testing.T) {
	svc, mem := newTestService(t)

	created, conflicts, err := svc.CreateIfFree(&types.CalendarEvent{
		Title:     "Free slot",
		StartTime: at(14, 0),
		EndTime:   ptr(at(16, 0)),
	})
	require.NoError(t, err)
	assert.Nil(t, conflicts)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)

	stored, err := mem.FindEventByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Free slot", stored.Title)
}

func TestExportFeedMergesEventsAndExams(t *testing.T) {
	svc, mem := newTestService(t,
		types.CalendarEvent{Title: "Morning", StartTime: at(10, 0), EndTime: ptr(at(11, 0))},
		types.CalendarEvent{Title: "Afternoon", StartTime: at(15, 0), EndTime: ptr(at(16, 0))},
	)

	course, err := mem.CreateCourse(&types.Course{Name: "Algorithms"})
	require.NoError(t, err)
	_, err = mem.CreateExam(course.ID, &types.Exam{Title: "Final", DateTime: at(8, 0)})
	require.NoError(t, err)

	feed, err := svc.ExportFeed(at(0, 0), at(23, 59), true)
	require.NoError(t, err)

	assert.Contains(t, feed, "SUMMARY:Morning\r\n")
	assert.Contains(t, feed, "SUMMARY:Afternoon\r\n")
	assert.Contains(t, feed, "SUMMARY:EXAM: Final (Algorithms)\r\n")

	// Events in chronological store order, exams after events.
	morning := strings.Index(feed, "SUMMARY:Morning")
	afternoon := strings.Index(feed, "SUMMARY:Afternoon")
	exam := strings.Index(feed, "SUMMARY:EXAM:")
	assert.Less(t, morning, afternoon)
	assert.Less(t, afternoon, exam)
}

func TestExportFeedExcludesExamsOnRequest(t *testing.T) {
	svc, mem := newTestService(t, types.CalendarEvent{
		Title:     "Morning",
		StartTime: at(10, 0),
		EndTime:   ptr(at(11, 0)),
	})

	course, err := mem.CreateCourse(&types.Course{Name: "Algorithms"})
	require.NoError(t, err)
	_, err = mem.CreateExam(course.ID, &types.Exam{Title: "Final", DateTime: at(8, 0)})
	require.NoError(t, err)

	feed, err := svc.ExportFeed(at(0, 0), at(23, 59), false)
	require.NoError(t, err)

	assert.Contains(t, feed, "SUMMARY:Morning\r\n")
	assert.NotContains(t, feed, "EXAM")
}

func TestExportFeedEmptyRangeStillCompleteDocument(t *testing.T) {
	svc, _ := newTestService(t)

	feed, err := svc.ExportFeed(at(0, 0), at(23, 59), true)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(feed, "END:VCALENDAR\r\n"))
}

func TestExportFeedDTSTAMPUsesRenderTime(t *testing.T) {
	svc, _ := newTestService(t, types.CalendarEvent{
		Title:     "Morning",
		StartTime: at(10, 0),
	})
	svc.Now = func() time.Time { return time.Date(2031, time.January, 2, 3, 4, 5, 0, time.UTC) }

	feed, err := svc.ExportFeed(at(0, 0), at(23, 59), false)
	require.NoError(t, err)
	assert.Contains(t, feed, "DTSTAMP:20310102T030405\r\n")
}
