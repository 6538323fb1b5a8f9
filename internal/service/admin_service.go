package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// AdminService exposes the privileged account and catalog management flows.
type AdminService struct {
	accounts   repository.AccountRepository
	courses    repository.CourseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies bundles requirements for the admin service.
type AdminDependencies struct {
	AccountRepo repository.AccountRepository
	CourseRepo  repository.CourseRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		accounts:   deps.AccountRepo,
		courses:    deps.CourseRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ListTeachers returns all teacher accounts.
func (s *AdminService) ListTeachers(ctx context.Context) ([]domain.Account, error) {
	return s.listByRole(ctx, domain.RoleTeacher)
}

// ListStudents returns all student accounts.
func (s *AdminService) ListStudents(ctx context.Context) ([]domain.Account, error) {
	return s.listByRole(ctx, domain.RoleStudent)
}

// DeleteAccount removes a teacher or student account. Ledger rows and owned
// courses cascade at the database level. Admin accounts cannot be deleted.
func (s *AdminService) DeleteAccount(ctx context.Context, id string) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"account_id": id})
		}
		return apperrors.MapError(err)
	}
	if account.Role == domain.RoleAdmin {
		return apperrors.NewForbidden("admin accounts cannot be deleted")
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("account deleted",
		zap.String("account_id", account.ID),
		zap.String("role", string(account.Role)))

	s.publishEvent(ctx, events.Event{
		Type: events.EventAccountDeleted,
		Payload: events.AccountDeletedPayload{
			AccountID: account.ID,
			Role:      account.Role,
			Email:     account.Email,
		},
	})
	return nil
}

// CourseOverview returns every course with its registration count, the
// admin diagnostic view.
func (s *AdminService) CourseOverview(ctx context.Context) ([]repository.CourseListing, error) {
	listings, err := s.courses.ListAll(ctx, "")
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if listings == nil {
		listings = []repository.CourseListing{}
	}
	return listings, nil
}

func (s *AdminService) listByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByRole(ctx, role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *AdminService) publishEvent(ctx context.Context, event events.Event) {
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
