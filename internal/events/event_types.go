package events

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEnrollmentCreated EventType = "enrollment_created"
	EventEnrollmentRemoved EventType = "enrollment_removed"
	EventCourseCreated     EventType = "course_created"
	EventCourseDeleted     EventType = "course_deleted"
	EventAccountDeleted    EventType = "account_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EnrollmentPayload payload for ledger events.
type EnrollmentPayload struct {
	EnrollmentID string `json:"enrollment_id,omitempty"`
	StudentID    string `json:"student_id"`
	CourseID     string `json:"course_id"`
}

// CoursePayload payload for catalog events.
type CoursePayload struct {
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	TeacherID string `json:"teacher_id"`
	Capacity  int    `json:"capacity,omitempty"`
}

// AccountDeletedPayload payload for admin deletions.
type AccountDeletedPayload struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
	Email     string      `json:"email"`
}
