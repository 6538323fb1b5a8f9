package domain

import "time"

// Enrollment links a student account to a course. At most one row may exist
// per (StudentID, CourseID) pair; the database enforces this with a unique
// constraint.
type Enrollment struct {
	ID        string
	StudentID string
	CourseID  string
	CreatedAt time.Time
}
