package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
)

// EnrollRequest payload. The student identity comes from the authenticated
// principal, never from the body.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid4"`
}

// EnrollmentResponse is the projection of a ledger row.
type EnrollmentResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentCourseResponse is an enrolled course with its teacher's name.
type StudentCourseResponse struct {
	CourseResponse
	TeacherName string `json:"teacher_name"`
}

// CourseRosterResponse pairs enrolled students with the total count.
type CourseRosterResponse struct {
	Count    int               `json:"count"`
	Students []AccountResponse `json:"students"`
}

// NewEnrollmentResponse maps a domain enrollment.
func NewEnrollmentResponse(enrollment *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        enrollment.ID,
		StudentID: enrollment.StudentID,
		CourseID:  enrollment.CourseID,
		CreatedAt: enrollment.CreatedAt,
	}
}

// NewStudentCourseResponse maps a repository projection.
func NewStudentCourseResponse(sc repository.StudentCourse) StudentCourseResponse {
	return StudentCourseResponse{
		CourseResponse: NewCourseResponse(&sc.Course),
		TeacherName:    sc.TeacherName,
	}
}
