package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
)

// CreateCourseRequest payload.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
}

// UpdateCourseRequest payload.
type UpdateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
}

// CourseResponse is the projection of a single course.
type CourseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	TeacherID   string    `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseListingResponse adds the teacher name and enrollment count.
type CourseListingResponse struct {
	CourseResponse
	TeacherName   string `json:"teacher_name"`
	EnrolledCount int    `json:"enrolled_count"`
}

// NewCourseResponse maps a domain course.
func NewCourseResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Capacity:    course.Capacity,
		TeacherID:   course.TeacherID,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}

// NewCourseListingResponse maps a repository listing projection.
func NewCourseListingResponse(listing repository.CourseListing) CourseListingResponse {
	return CourseListingResponse{
		CourseResponse: NewCourseResponse(&listing.Course),
		TeacherName:    listing.TeacherName,
		EnrolledCount:  listing.EnrolledCount,
	}
}
