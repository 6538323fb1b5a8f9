package service

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// fakeLedger is a stateful in-memory EnrollmentRepository that mirrors the
// database behavior: capacity checked against current rows, uniqueness on
// the (student, course) pair.
type fakeLedger struct {
	capacity map[string]int
	rows     map[string]map[string]bool
	nextID   int
}

func newFakeLedger(capacities map[string]int) *fakeLedger {
	return &fakeLedger{capacity: capacities, rows: make(map[string]map[string]bool)}
}

func (f *fakeLedger) Enroll(_ context.Context, studentID, courseID string) (*domain.Enrollment, error) {
	limit, ok := f.capacity[courseID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if len(f.rows[courseID]) >= limit {
		return nil, repository.ErrCourseFull
	}
	if f.rows[courseID][studentID] {
		return nil, repository.ErrAlreadyEnrolled
	}
	if f.rows[courseID] == nil {
		f.rows[courseID] = make(map[string]bool)
	}
	f.rows[courseID][studentID] = true
	f.nextID++
	return &domain.Enrollment{ID: strconv.Itoa(f.nextID), StudentID: studentID, CourseID: courseID}, nil
}

func (f *fakeLedger) Delete(_ context.Context, studentID, courseID string) error {
	if !f.rows[courseID][studentID] {
		return pgx.ErrNoRows
	}
	delete(f.rows[courseID], studentID)
	return nil
}

func (f *fakeLedger) Exists(_ context.Context, studentID, courseID string) (bool, error) {
	return f.rows[courseID][studentID], nil
}

func (f *fakeLedger) CountByCourse(_ context.Context, courseID string) (int, error) {
	return len(f.rows[courseID]), nil
}

func (f *fakeLedger) ListCoursesByStudent(_ context.Context, _ string) ([]repository.StudentCourse, error) {
	return nil, nil
}

func (f *fakeLedger) ListStudentsByCourse(_ context.Context, _ string) ([]domain.Account, error) {
	return nil, nil
}

func TestEnrollmentCapacityScenario(t *testing.T) {
	// capacity=2: two sequential enrollments succeed, the third is rejected,
	// and re-enrolling an already registered student conflicts.
	ledger := newFakeLedger(map[string]int{"course-1": 2})

	courseRepo := new(MockCourseRepository)
	courseRepo.On("GetByID", mock.Anything, "course-1").Return(testCourse("course-1", 2), nil)

	accountRepo := new(MockAccountRepository)
	for _, id := range []string{"student-1", "student-2", "student-3"} {
		accountRepo.On("GetByID", mock.Anything, id).Return(testStudent(id), nil)
	}

	svc := NewEnrollmentService(EnrollmentDependencies{
		EnrollmentRepo: ledger,
		CourseRepo:     courseRepo,
		AccountRepo:    accountRepo,
	})
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "student-1", "course-1")
	assert.NoError(t, err)
	_, err = svc.Enroll(ctx, "student-2", "course-1")
	assert.NoError(t, err)

	count, err := ledger.CountByCourse(ctx, "course-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.Enroll(ctx, "student-3", "course-1")
	var domainErr *apperrors.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	assert.Equal(t, "course is full", domainErr.Message)

	// The losing request must not grow the ledger.
	count, _ = ledger.CountByCourse(ctx, "course-1")
	assert.Equal(t, 2, count)

	// A student already holding a row conflicts before capacity is reached.
	_ = ledger.Delete(ctx, "student-2", "course-1")
	_, err = svc.Enroll(ctx, "student-1", "course-1")
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "already enrolled", domainErr.Message)
}
