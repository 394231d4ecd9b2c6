package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dali/life-analytics-srv/types"
)

// Memory implements EventStore, ExamStore and CourseStore with in-process
// maps guarded by a RWMutex. All returned records are copies.
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	events  map[int64]*types.CalendarEvent
	courses map[int64]*types.Course
	exams   map[int64]*types.Exam
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		events:  make(map[int64]*types.CalendarEvent),
		courses: make(map[int64]*types.Course),
		exams:   make(map[int64]*types.Exam),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// Event operations

func (m *Memory) CreateEvent(event *types.CalendarEvent) (*types.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *event
	stored.ID = m.id()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.events[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (m *Memory) FindAllEvents() ([]types.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]types.CalendarEvent, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, *e)
	}
	sortEventsAsc(events)
	return events, nil
}

func (m *Memory) FindEventByID(id int64) (*types.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, NotFound(fmt.Sprintf("event not found: %d", id))
	}
	out := *e
	return &out, nil
}

func (m *Memory) UpdateEvent(id int64, event *types.CalendarEvent) (*types.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.events[id]
	if !ok {
		return nil, NotFound(fmt.Sprintf("event not found: %d", id))
	}

	existing.Title = event.Title
	existing.Description = event.Description
	existing.Category = event.Category
	existing.StartTime = event.StartTime
	existing.EndTime = event.EndTime
	existing.Location = event.Location
	existing.AllDay = event.AllDay
	existing.Notes = event.Notes
	existing.UpdatedAt = time.Now()

	out := *existing
	return &out, nil
}

func (m *Memory) DeleteEvent(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return NotFound(fmt.Sprintf("event not found: %d", id))
	}
	delete(m.events, id)
	return nil
}

func (m *Memory) CompleteEvent(id int64) (*types.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.events[id]
	if !ok {
		return nil, NotFound(fmt.Sprintf("event not found: %d", id))
	}
	existing.Completed = true
	existing.UpdatedAt = time.Now()

	out := *existing
	return &out, nil
}

func (m *Memory) FindEventsByRange(start, end time.Time) ([]types.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []types.CalendarEvent
	for _, e := range m.events {
		if !e.StartTime.Before(start) && !e.StartTime.After(end) {
			events = append(events, *e)
		}
	}
	sortEventsAsc(events)
	return events, nil
}

func (m *Memory) FindEventsToday() ([]types.CalendarEvent, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return m.FindEventsByRange(start, start.Add(24*time.Hour-time.Nanosecond))
}

func (m *Memory) FindUpcomingEvents(now, until time.Time) ([]types.CalendarEvent, error) {
	return m.FindEventsByRange(now, until)
}

func (m *Memory) FindEventsByCategory(category string) ([]types.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []types.CalendarEvent
	for _, e := range m.events {
		if strings.EqualFold(e.Category, category) {
			events = append(events, *e)
		}
	}
	sortEventsDesc(events)
	return events, nil
}

func (m *Memory) SearchEvents(keyword string) ([]types.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(keyword)
	var events []types.CalendarEvent
	for _, e := range m.events {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			events = append(events, *e)
		}
	}
	sortEventsDesc(events)
	return events, nil
}

// Course operations

func (m *Memory) CreateCourse(course *types.Course) (*types.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *course
	stored.ID = m.id()
	stored.CreatedAt = time.Now()
	m.courses[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (m *Memory) FindAllCourses() ([]types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	courses := make([]types.Course, 0, len(m.courses))
	for _, c := range m.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (m *Memory) FindCourseByID(id int64) (*types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.courses[id]
	if !ok {
		return nil, NotFound(fmt.Sprintf("course not found: %d", id))
	}
	out := *c
	return &out, nil
}

// Exam operations

func (m *Memory) CreateExam(courseID int64, exam *types.Exam) (*types.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	course, ok := m.courses[courseID]
	if !ok {
		return nil, NotFound(fmt.Sprintf("course not found: %d", courseID))
	}

	stored := *exam
	stored.ID = m.id()
	stored.CourseID = courseID
	stored.CourseName = course.Name
	stored.CreatedAt = time.Now()
	m.exams[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (m *Memory) FindExamsByRange(start, end time.Time) ([]types.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var exams []types.Exam
	for _, e := range m.exams {
		if !e.DateTime.Before(start) && !e.DateTime.After(end) {
			exams = append(exams, *e)
		}
	}
	sortExamsAsc(exams)
	return exams, nil
}

func (m *Memory) FindUpcomingExams(now time.Time) ([]types.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var exams []types.Exam
	for _, e := range m.exams {
		if !e.DateTime.Before(now) {
			exams = append(exams, *e)
		}
	}
	sortExamsAsc(exams)
	return exams, nil
}

func sortEventsAsc(events []types.CalendarEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].ID < events[j].ID
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
}

func sortEventsDesc(events []types.CalendarEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].ID > events[j].ID
		}
		return events[i].StartTime.After(events[j].StartTime)
	})
}

func sortExamsAsc(exams []types.Exam) {
	sort.Slice(exams, func(i, j int) bool {
		if exams[i].DateTime.Equal(exams[j].DateTime) {
			return exams[i].ID < exams[j].ID
		}
		return exams[i].DateTime.Before(exams[j].DateTime)
	})
}
