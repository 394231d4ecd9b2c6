package calendar

import (
	"time"

	"github.com/dali/life-analytics-srv/store"
	"github.com/dali/life-analytics-srv/types"
	"go.uber.org/zap"
)

// queryMargin widens the store range read on each side of a candidate window
// so events that start outside the window but run into it are still seen.
// Events are indexed by start time only; an exact-range read would miss them.
const queryMargin = 12 * time.Hour

// slotGap is the breathing room left between a suggested slot and the
// conflicting events around it.
const slotGap = 15 * time.Minute

// Service detects schedule conflicts, proposes alternative slots and exports
// the merged event/exam feed. All methods are stateless request/response
// calls; concurrent use needs no coordination.
type Service struct {
	Logger *zap.Logger
	Events store.EventStore
	Exams  store.ExamStore

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// overlaps is the half-open interval intersection predicate. Touching
// endpoints do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindOverlapping returns the stored events whose effective window intersects
// [start, end), preserving store order. Store errors propagate unchanged.
func (s *Service) FindOverlapping(start, end time.Time) ([]types.CalendarEvent, error) {
	stored, err := s.Events.FindEventsByRange(start.Add(-queryMargin), end.Add(queryMargin))
	if err != nil {
		return nil, err
	}

	var overlapping []types.CalendarEvent
	for _, e := range stored {
		if overlaps(e.StartTime, e.EffectiveEnd(), start, end) {
			overlapping = append(overlapping, e)
		}
	}
	return overlapping, nil
}

// suggestAlternatives proposes up to three replacement windows for a
// conflicting request, each preserving the requested duration exactly.
// Best-effort: the before/after slots are not re-checked against events
// outside the given conflict set.
func (s *Service) suggestAlternatives(requestedStart, requestedEnd time.Time, conflicts []types.CalendarEvent) ([]types.TimeSlot, error) {
	alternatives := []types.TimeSlot{}
	if len(conflicts) == 0 {
		return alternatives, nil
	}

	duration := requestedEnd.Sub(requestedStart)

	// A slot ending shortly before the earliest conflict, unless it would
	// start in the past.
	earliestStart := conflicts[0].StartTime
	for _, c := range conflicts[1:] {
		if c.StartTime.Before(earliestStart) {
			earliestStart = c.StartTime
		}
	}
	beforeEnd := earliestStart.Add(-slotGap)
	beforeStart := beforeEnd.Add(-duration)
	if beforeStart.After(s.now()) {
		alternatives = append(alternatives, types.TimeSlot{
			StartTime:   beforeStart,
			EndTime:     beforeEnd,
			Description: "Before conflicting event(s)",
		})
	}

	// A slot shortly after the last conflict ends. Always offered.
	latestEnd := conflicts[0].EffectiveEnd()
	for _, c := range conflicts[1:] {
		if end := c.EffectiveEnd(); end.After(latestEnd) {
			latestEnd = end
		}
	}
	afterStart := latestEnd.Add(slotGap)
	alternatives = append(alternatives, types.TimeSlot{
		StartTime:   afterStart,
		EndTime:     afterStart.Add(duration),
		Description: "After conflicting event(s)",
	})

	// The same window tomorrow, only when it checks out clean. A busy next
	// day is skipped, not searched further.
	nextDayStart := requestedStart.Add(24 * time.Hour)
	nextDayEnd := requestedEnd.Add(24 * time.Hour)
	nextDayConflicts, err := s.FindOverlapping(nextDayStart, nextDayEnd)
	if err != nil {
		return nil, err
	}
	if len(nextDayConflicts) == 0 {
		alternatives = append(alternatives, types.TimeSlot{
			StartTime:   nextDayStart,
			EndTime:     nextDayEnd,
			Description: "Same time tomorrow (no conflicts)",
		})
	}

	return alternatives, nil
}
