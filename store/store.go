// Package store defines the persistence boundary for calendar events, courses
// and exams. The conflict/export logic depends only on these interfaces.
package store

import (
	"errors"
	"time"

	"github.com/dali/life-analytics-srv/types"
)

type ErrorType int

const (
	ErrNotFound ErrorType = iota
	ErrInvalid
)

// Error is the typed error returned by store implementations.
type Error struct {
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds an Error of type ErrNotFound.
func NotFound(msg string) *Error {
	return &Error{Type: ErrNotFound, Message: msg}
}

// Invalid builds an Error of type ErrInvalid.
func Invalid(msg string) *Error {
	return &Error{Type: ErrInvalid, Message: msg}
}

// IsNotFound reports whether err is a store Error of type ErrNotFound.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Type == ErrNotFound
}

// EventStore persists calendar events. Range and listing queries return
// events ordered chronologically by start time unless noted otherwise.
type EventStore interface {
	CreateEvent(event *types.CalendarEvent) (*types.CalendarEvent, error)
	FindAllEvents() ([]types.CalendarEvent, error)
	FindEventByID(id int64) (*types.CalendarEvent, error)
	UpdateEvent(id int64, event *types.CalendarEvent) (*types.CalendarEvent, error)
	DeleteEvent(id int64) error
	CompleteEvent(id int64) (*types.CalendarEvent, error)
	FindEventsByRange(start, end time.Time) ([]types.CalendarEvent, error)
	FindEventsToday() ([]types.CalendarEvent, error)
	FindUpcomingEvents(now, until time.Time) ([]types.CalendarEvent, error)
	// FindEventsByCategory and SearchEvents return newest-first.
	FindEventsByCategory(category string) ([]types.CalendarEvent, error)
	SearchEvents(keyword string) ([]types.CalendarEvent, error)
}

// ExamStore reads and writes exams. The conflict/export core only ever reads.
type ExamStore interface {
	CreateExam(courseID int64, exam *types.Exam) (*types.Exam, error)
	FindExamsByRange(start, end time.Time) ([]types.Exam, error)
	FindUpcomingExams(now time.Time) ([]types.Exam, error)
}

// CourseStore persists the courses that own exams.
type CourseStore interface {
	CreateCourse(course *types.Course) (*types.Course, error)
	FindAllCourses() ([]types.Course, error)
	FindCourseByID(id int64) (*types.Course, error)
}
