package calendar

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dali/life-analytics-srv/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:abc123\r\n" +
	"DTSTAMP:20300601T090000Z\r\n" +
	"DTSTART:20300610T140000Z\r\n" +
	"DTEND:20300610T150000Z\r\n" +
	"SUMMARY:Dentist\r\n" +
	"LOCATION:Clinic\r\n" +
	"DESCRIPTION:Checkup\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestImportCreatesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	mem := store.NewMemory()
	imp := &Importer{Logger: zap.NewNop(), Events: mem}

	start := time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, time.July, 1, 0, 0, 0, 0, time.UTC)
	created, err := imp.Import(srv.URL, start, end)
	require.NoError(t, err)
	require.Len(t, created, 1)

	event := created[0]
	assert.NotZero(t, event.ID)
	assert.Equal(t, "Dentist", event.Title)
	assert.Equal(t, "Clinic", event.Location)
	assert.Equal(t, "Checkup", event.Description)
	assert.Equal(t, "IMPORTED", event.Category)
	require.NotNil(t, event.EndTime)
	assert.Equal(t, time.Hour, event.EndTime.Sub(event.StartTime))

	all, err := mem.FindAllEvents()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImportEmptyFeedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"))
	}))
	defer srv.Close()

	mem := store.NewMemory()
	imp := &Importer{Logger: zap.NewNop(), Events: mem}

	created, err := imp.Import(srv.URL, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestImportDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	mem := store.NewMemory()
	imp := &Importer{Logger: zap.NewNop(), Events: mem}

	_, err := imp.Import(srv.URL, time.Time{}, time.Time{})
	assert.Error(t, err)
}
