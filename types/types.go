package types

import "time"

// DefaultEventDuration is assumed for any event or exam without an explicit
// end or duration, so overlap math never sees a zero-length window.
const DefaultEventDuration = time.Hour

// CalendarEvent is a manually tracked appointment, meeting, deadline or
// reminder. EndTime is optional; reminders have no duration.
type CalendarEvent struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Location    string     `json:"location,omitempty"`
	AllDay      bool       `json:"allDay"`
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EffectiveEnd returns the end instant used for overlap math. A missing or
// non-positive explicit end falls back to StartTime plus one hour.
func (e *CalendarEvent) EffectiveEnd() time.Time {
	if e.EndTime != nil && e.EndTime.After(e.StartTime) {
		return *e.EndTime
	}
	return e.StartTime.Add(DefaultEventDuration)
}

// Course is an academic course owning zero or more exams.
type Course struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	Description string    `json:"description,omitempty"`
	Credits     *int      `json:"credits,omitempty"`
	Instructor  string    `json:"instructor,omitempty"`
	Semester    string    `json:"semester,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Exam is a scheduled test for a course. CourseName is denormalized by the
// store for display and feed export.
type Exam struct {
	ID              int64     `json:"id"`
	CourseID        int64     `json:"courseId"`
	CourseName      string    `json:"courseName,omitempty"`
	Title           string    `json:"title"`
	DateTime        time.Time `json:"dateTime"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EffectiveEnd returns DateTime plus the exam duration, or plus one hour when
// no duration is recorded.
func (e *Exam) EffectiveEnd() time.Time {
	if e.DurationMinutes != nil && *e.DurationMinutes > 0 {
		return e.DateTime.Add(time.Duration(*e.DurationMinutes) * time.Minute)
	}
	return e.DateTime.Add(DefaultEventDuration)
}

// ConflictResult is the outcome of a conflict check. HasConflict true is a
// normal result, not an error.
type ConflictResult struct {
	HasConflict           bool               `json:"hasConflict"`
	RequestedStart        time.Time          `json:"requestedStart"`
	RequestedEnd          time.Time          `json:"requestedEnd"`
	Conflicts             []ConflictingEvent `json:"conflicts"`
	SuggestedAlternatives []TimeSlot         `json:"suggestedAlternatives"`
}

// ConflictingEvent is the reduced view of an event inside a ConflictResult.
// EndTime is the stored value, which may be absent.
type ConflictingEvent struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Category  string     `json:"category,omitempty"`
}

// TimeSlot is an advisory alternative window. It is never persisted or
// reserved.
type TimeSlot struct {
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description"`
}

// ImportRequest asks the server to ingest an external ICS feed.
type ImportRequest struct {
	ICSUrl string `json:"icsUrl"`
}

type BaseResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}
