package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// CourseService coordinates catalog workflows.
type CourseService struct {
	courses    repository.CourseRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
}

// CourseDependencies bundles repositories for the course service.
type CourseDependencies struct {
	CourseRepo  repository.CourseRepository
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
}

// CourseCreateInput describes course creation payload.
type CourseCreateInput struct {
	Title       string
	Description string
	Capacity    int
}

// CourseUpdateInput describes course update payload. Capacity may be reduced
// below the current enrollment count; existing rows are untouched and new
// enrolls are rejected while the course stays over capacity.
type CourseUpdateInput struct {
	Title       string
	Description string
	Capacity    int
}

// NewCourseService constructs the service.
func NewCourseService(deps CourseDependencies) *CourseService {
	return &CourseService{
		courses:    deps.CourseRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create adds a course owned by the given teacher.
func (s *CourseService) Create(ctx context.Context, teacher *domain.Account, input CourseCreateInput) (*domain.Course, error) {
	if teacher == nil || teacher.Role != domain.RoleTeacher {
		return nil, apperrors.NewForbidden("teacher role required")
	}
	if input.Capacity <= 0 {
		return nil, apperrors.NewValidationError("capacity must be positive", map[string]any{"capacity": input.Capacity})
	}

	course := &domain.Course{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Capacity:    input.Capacity,
		TeacherID:   teacher.ID,
	}
	if course.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventCourseCreated,
		Actor: events.Actor{AccountID: teacher.ID, Role: teacher.Role},
		Payload: events.CoursePayload{
			CourseID:  course.ID,
			Title:     course.Title,
			TeacherID: course.TeacherID,
			Capacity:  course.Capacity,
		},
	})
	return course, nil
}

// Update modifies a course. Only the owning teacher or an admin may mutate.
func (s *CourseService) Update(ctx context.Context, caller *domain.Account, courseID string, input CourseUpdateInput) (*domain.Course, error) {
	course, err := s.getForMutation(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}
	if input.Capacity <= 0 {
		return nil, apperrors.NewValidationError("capacity must be positive", map[string]any{"capacity": input.Capacity})
	}

	course.Title = strings.TrimSpace(input.Title)
	course.Description = strings.TrimSpace(input.Description)
	course.Capacity = input.Capacity
	if course.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, apperrors.MapError(err)
	}
	return course, nil
}

// Delete removes a course and, through the database cascade, its ledger rows.
func (s *CourseService) Delete(ctx context.Context, caller *domain.Account, courseID string) error {
	course, err := s.getForMutation(ctx, caller, courseID)
	if err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, course.ID); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventCourseDeleted,
		Actor: events.Actor{AccountID: caller.ID, Role: caller.Role},
		Payload: events.CoursePayload{
			CourseID:  course.ID,
			Title:     course.Title,
			TeacherID: course.TeacherID,
		},
	})
	return nil
}

// GetByID fetches a single course.
func (s *CourseService) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": courseID})
		}
		return nil, apperrors.MapError(err)
	}
	return course, nil
}

// ListAll returns the catalog with teacher names and enrollment counts,
// optionally filtered by a title/description search term.
func (s *CourseService) ListAll(ctx context.Context, search string) ([]repository.CourseListing, error) {
	listings, err := s.courses.ListAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if listings == nil {
		listings = []repository.CourseListing{}
	}
	return listings, nil
}

// ListByTeacher returns the courses a teacher owns with enrollment counts.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID string) ([]repository.CourseListing, error) {
	listings, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if listings == nil {
		listings = []repository.CourseListing{}
	}
	return listings, nil
}

// CanViewRoster reports whether the caller may list a course's students.
func (s *CourseService) CanViewRoster(caller *domain.Account, course *domain.Course) bool {
	if caller == nil || course == nil {
		return false
	}
	if caller.Role == domain.RoleAdmin {
		return true
	}
	return caller.Role == domain.RoleTeacher && course.TeacherID == caller.ID
}

func (s *CourseService) getForMutation(ctx context.Context, caller *domain.Account, courseID string) (*domain.Course, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": courseID})
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && course.TeacherID != caller.ID {
		return nil, apperrors.NewForbidden("not the course owner")
	}
	return course, nil
}

func (s *CourseService) publishEvent(ctx context.Context, event events.Event) {
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
