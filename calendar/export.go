package calendar

import (
	"time"

	"github.com/dali/life-analytics-srv/types"
	"go.uber.org/zap"
)

// ExportFeed renders the iCalendar document for events in [start, end],
// optionally merged with the exams in the same range.
func (s *Service) ExportFeed(start, end time.Time, includeExams bool) (string, error) {
	events, err := s.Events.FindEventsByRange(start, end)
	if err != nil {
		return "", err
	}

	var exams []types.Exam
	if includeExams {
		exams, err = s.Exams.FindExamsByRange(start, end)
		if err != nil {
			return "", err
		}
	}

	s.Logger.Info("ExportFeed",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("events", len(events)),
		zap.Int("exams", len(exams)))

	return renderFeed(events, exams, s.now()), nil
}

// CheckConflicts evaluates the candidate window against stored events. A
// conflicting window is a normal result carrying the conflict set and up to
// three suggested alternatives, never an error.
func (s *Service) CheckConflicts(start, end time.Time) (*types.ConflictResult, error) {
	result := &types.ConflictResult{
		RequestedStart:        start,
		RequestedEnd:          end,
		Conflicts:             []types.ConflictingEvent{},
		SuggestedAlternatives: []types.TimeSlot{},
	}

	overlapping, err := s.FindOverlapping(start, end)
	if err != nil {
		return nil, err
	}
	if len(overlapping) == 0 {
		return result, nil
	}

	result.HasConflict = true
	for _, e := range overlapping {
		result.Conflicts = append(result.Conflicts, types.ConflictingEvent{
			ID:        e.ID,
			Title:     e.Title,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Category:  e.Category,
		})
	}

	alternatives, err := s.suggestAlternatives(start, end, overlapping)
	if err != nil {
		return nil, err
	}
	result.SuggestedAlternatives = alternatives

	s.Logger.Info("CheckConflicts",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Int("alternatives", len(alternatives)))

	return result, nil
}

// CreateIfFree creates the event only when its effective window is free of
// conflicts; otherwise the ConflictResult is returned and nothing is written.
// The check and the create are not one atomic step: an event stored between
// them can slip through. Conflict detection here is advisory, not a booking
// lock; callers needing exclusivity must lock at the store layer.
func (s *Service) CreateIfFree(event *types.CalendarEvent) (*types.CalendarEvent, *types.ConflictResult, error) {
	result, err := s.CheckConflicts(event.StartTime, event.EffectiveEnd())
	if err != nil {
		return nil, nil, err
	}
	if result.HasConflict {
		return nil, result, nil
	}

	created, err := s.Events.CreateEvent(event)
	if err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}
