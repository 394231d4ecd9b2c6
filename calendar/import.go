package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/apognu/gocal"
	"github.com/dali/life-analytics-srv/store"
	"github.com/dali/life-analytics-srv/types"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// importCategory marks events ingested from an external feed.
const importCategory = "IMPORTED"

// defaultImportWindow bounds how far ahead an imported feed is expanded.
const defaultImportWindow = 365 * 24 * time.Hour

// Importer subscribes to an external ICS feed and ingests its events through
// the event store.
type Importer struct {
	Logger *zap.Logger
	Events store.EventStore
}

// Download fetches the raw ICS document at url.
func (i *Importer) Download(url string) (string, error) {
	client := resty.New()

	resp, err := client.R().Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("feed download failed: %s returned %s", url, resp.Status())
	}

	return resp.String(), nil
}

// Import downloads the feed at url, parses the events falling in
// [start, end] and creates each through the event store. A zero start and
// end default to now through one year ahead. Returns the created events; an
// empty feed is not an error.
func (i *Importer) Import(url string, start, end time.Time) ([]types.CalendarEvent, error) {
	if start.IsZero() || end.IsZero() {
		start = time.Now()
		end = start.Add(defaultImportWindow)
	}

	data, err := i.Download(url)
	if err != nil {
		return nil, err
	}

	parser := gocal.NewParser(strings.NewReader(data))
	parser.Start, parser.End = &start, &end
	if err := parser.Parse(); err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}

	created := []types.CalendarEvent{}
	for _, e := range parser.Events {
		if e.Start == nil {
			continue
		}
		event := &types.CalendarEvent{
			Title:       e.Summary,
			Description: e.Description,
			Category:    importCategory,
			StartTime:   *e.Start,
			EndTime:     e.End,
			Location:    e.Location,
		}
		saved, err := i.Events.CreateEvent(event)
		if err != nil {
			return nil, err
		}
		created = append(created, *saved)
	}

	i.Logger.Info("Import",
		zap.String("url", url),
		zap.Int("created", len(created)))

	return created, nil
}
