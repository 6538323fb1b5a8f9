package domain

import "time"

// Course represents an offered course. The owning teacher is referenced by
// id only; enrollment rows are kept as an independent relation.
type Course struct {
	ID          string
	Title       string
	Description string
	Capacity    int
	TeacherID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
