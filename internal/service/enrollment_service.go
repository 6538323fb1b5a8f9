package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// EnrollmentService enforces the registration ledger invariants: at most one
// row per (student, course) pair and never more rows than the course
// capacity. The capacity check and insert happen inside one repository
// transaction, so the losing side of a concurrent race is rejected.
type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	accounts    repository.AccountRepository
	dispatcher  events.Dispatcher
}

// EnrollmentDependencies bundles repositories for the enrollment service.
type EnrollmentDependencies struct {
	EnrollmentRepo repository.EnrollmentRepository
	CourseRepo     repository.CourseRepository
	AccountRepo    repository.AccountRepository
	Dispatcher     events.Dispatcher
}

// CourseRoster pairs the enrolled students of a course with the total count.
// The count is computed independently of the returned list.
type CourseRoster struct {
	Count    int
	Students []domain.Account
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(deps EnrollmentDependencies) *EnrollmentService {
	return &EnrollmentService{
		enrollments: deps.EnrollmentRepo,
		courses:     deps.CourseRepo,
		accounts:    deps.AccountRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Enroll registers a student in a course.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": courseID})
		}
		return nil, apperrors.MapError(err)
	}

	student, err := s.accounts.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("student", map[string]any{"student_id": studentID})
		}
		return nil, apperrors.MapError(err)
	}
	if student.Role != domain.RoleStudent {
		return nil, apperrors.NewForbidden("only students can enroll")
	}

	enrollment, err := s.enrollments.Enroll(ctx, student.ID, course.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseFull):
			return nil, apperrors.NewConflict("course is full", map[string]any{"course_id": course.ID, "capacity": course.Capacity})
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			return nil, apperrors.NewConflict("already enrolled", map[string]any{"course_id": course.ID})
		case errors.Is(err, pgx.ErrNoRows):
			// Course deleted between the lookup and the locked read.
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": course.ID})
		default:
			return nil, apperrors.MapError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventEnrollmentCreated,
		Actor: events.Actor{AccountID: student.ID, Role: student.Role},
		Payload: events.EnrollmentPayload{
			EnrollmentID: enrollment.ID,
			StudentID:    student.ID,
			CourseID:     course.ID,
		},
	})
	return enrollment, nil
}

// Unenroll removes a student's registration for a course.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	if err := s.enrollments.Delete(ctx, studentID, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("enrollment", map[string]any{"course_id": courseID})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventEnrollmentRemoved,
		Actor: events.Actor{AccountID: studentID, Role: domain.RoleStudent},
		Payload: events.EnrollmentPayload{
			StudentID: studentID,
			CourseID:  courseID,
		},
	})
	return nil
}

// ListForStudent returns the courses a student is enrolled in, including the
// owning teacher's display name. An empty slice is not an error.
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID string) ([]repository.StudentCourse, error) {
	courses, err := s.enrollments.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if courses == nil {
		courses = []repository.StudentCourse{}
	}
	return courses, nil
}

// ListForCourse returns the enrolled students of a course with the total
// count.
func (s *EnrollmentService) ListForCourse(ctx context.Context, courseID string) (*CourseRoster, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": courseID})
		}
		return nil, apperrors.MapError(err)
	}

	students, err := s.enrollments.ListStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	count, err := s.enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if students == nil {
		students = []domain.Account{}
	}
	return &CourseRoster{Count: count, Students: students}, nil
}

func (s *EnrollmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
