package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/domain"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

func newAuthService(accountRepo *MockAccountRepository) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{AccountRepo: accountRepo})
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.Role
		setupMocks func(*MockAccountRepository)
		wantStatus int
		wantCode   string
	}{
		{
			name: "student registration succeeds",
			role: domain.RoleStudent,
			setupMocks: func(a *MockAccountRepository) {
				a.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pgx.ErrNoRows)
				a.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*domain.Account).ID = "acc-1"
					}).
					Return(nil)
			},
		},
		{
			name: "teacher registration succeeds",
			role: domain.RoleTeacher,
			setupMocks: func(a *MockAccountRepository) {
				a.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pgx.ErrNoRows)
				a.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*domain.Account).ID = "acc-2"
					}).
					Return(nil)
			},
		},
		{
			name:       "admin role rejected",
			role:       domain.RoleAdmin,
			setupMocks: func(a *MockAccountRepository) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name: "duplicate email conflicts",
			role: domain.RoleStudent,
			setupMocks: func(a *MockAccountRepository) {
				a.On("GetByEmail", mock.Anything, "new@example.com").
					Return(&domain.Account{ID: "acc-1", Email: "new@example.com"}, nil)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountRepo := new(MockAccountRepository)
			tt.setupMocks(accountRepo)
			svc := newAuthService(accountRepo)

			account, token, _, err := svc.Register(context.Background(), tt.role, "New User", "new@example.com", "hunter22")

			if tt.wantCode != "" {
				var domainErr *apperrors.DomainError
				assert.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantStatus, domainErr.HTTPStatus)
				assert.Equal(t, tt.wantCode, domainErr.Code)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.role, account.Role)
			assert.NotEmpty(t, account.PasswordHash)
			assert.NotEqual(t, "hunter22", account.PasswordHash)

			claims, err := svc.TokenManager().ParseToken(token)
			assert.NoError(t, err)
			assert.Equal(t, account.ID, claims.SubjectID)
			assert.Equal(t, tt.role, claims.Role)
			accountRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*testing.T, *MockAccountRepository)
		password   string
		wantErr    bool
	}{
		{
			name: "valid credentials",
			setupMocks: func(t *testing.T, a *MockAccountRepository) {
				a.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.Account{
					ID:           "acc-1",
					Email:        "user@example.com",
					PasswordHash: hashedPassword(t, "correct-password"),
					Role:         domain.RoleStudent,
				}, nil)
			},
			password: "correct-password",
		},
		{
			name: "unknown email",
			setupMocks: func(t *testing.T, a *MockAccountRepository) {
				a.On("GetByEmail", mock.Anything, "user@example.com").Return(nil, pgx.ErrNoRows)
			},
			password: "correct-password",
			wantErr:  true,
		},
		{
			name: "wrong password",
			setupMocks: func(t *testing.T, a *MockAccountRepository) {
				a.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.Account{
					ID:           "acc-1",
					Email:        "user@example.com",
					PasswordHash: hashedPassword(t, "correct-password"),
					Role:         domain.RoleStudent,
				}, nil)
			},
			password: "wrong-password",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountRepo := new(MockAccountRepository)
			tt.setupMocks(t, accountRepo)
			svc := newAuthService(accountRepo)

			account, token, _, err := svc.Login(context.Background(), "user@example.com", tt.password)

			if tt.wantErr {
				// Unknown email and wrong password must be indistinguishable.
				var domainErr *apperrors.DomainError
				assert.ErrorAs(t, err, &domainErr)
				assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
				assert.Equal(t, "invalid credentials", domainErr.Message)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "acc-1", account.ID)
			assert.NotEmpty(t, token)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("wrong current password rejected", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		accountRepo.On("GetByID", mock.Anything, "acc-1").Return(&domain.Account{
			ID:           "acc-1",
			PasswordHash: hashedPassword(t, "old-password"),
		}, nil)
		svc := newAuthService(accountRepo)

		err := svc.ChangePassword(context.Background(), "acc-1", "not-the-password", "new-password")

		var domainErr *apperrors.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
	})

	t.Run("hash replaced on success", func(t *testing.T) {
		oldHash := hashedPassword(t, "old-password")
		accountRepo := new(MockAccountRepository)
		accountRepo.On("GetByID", mock.Anything, "acc-1").Return(&domain.Account{
			ID:           "acc-1",
			PasswordHash: oldHash,
		}, nil)
		accountRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.PasswordHash != oldHash &&
				bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("new-password")) == nil
		})).Return(nil)
		svc := newAuthService(accountRepo)

		err := svc.ChangePassword(context.Background(), "acc-1", "old-password", "new-password")
		assert.NoError(t, err)
		accountRepo.AssertExpectations(t)
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	logger := zap.NewNop()
	adminCfg := config.AdminConfig{Name: "Administrator", Email: "admin@example.com", Password: "s3cret"}

	t.Run("creates admin when missing", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		accountRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(nil, pgx.ErrNoRows)
		accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.Role == domain.RoleAdmin && a.Email == "admin@example.com"
		})).Return(nil)
		svc := newAuthService(accountRepo)

		assert.NoError(t, svc.EnsureAdmin(context.Background(), adminCfg, logger))
		accountRepo.AssertExpectations(t)
	})

	t.Run("idempotent when admin exists", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		accountRepo.On("GetByEmail", mock.Anything, "admin@example.com").
			Return(&domain.Account{ID: "acc-9", Role: domain.RoleAdmin}, nil)
		svc := newAuthService(accountRepo)

		assert.NoError(t, svc.EnsureAdmin(context.Background(), adminCfg, logger))
		accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("skipped when not configured", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := newAuthService(accountRepo)

		assert.NoError(t, svc.EnsureAdmin(context.Background(), config.AdminConfig{}, logger))
		accountRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}
