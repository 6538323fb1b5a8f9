package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/http/handlers"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Courses        *handlers.CoursesHandler
	Enrollments    *handlers.EnrollmentsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register/:role", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	// Catalog reads are public; mutations require the owning teacher or an
	// admin, checked inside the service.
	courses := app.Group("/courses")
	courses.Get("/", cfg.Courses.ListAll)
	courses.Post("/", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTeacher), cfg.Courses.Create)
	courses.Get("/mine", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTeacher), cfg.Courses.ListMine)
	courses.Get("/:id", cfg.Courses.Get)
	courses.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTeacher, domain.RoleAdmin), cfg.Courses.Update)
	courses.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTeacher, domain.RoleAdmin), cfg.Courses.Delete)
	courses.Get("/:id/students", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTeacher, domain.RoleAdmin), cfg.Courses.Roster)

	enrollments := app.Group("/enrollments", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStudent))
	enrollments.Post("/", cfg.Enrollments.Enroll)
	enrollments.Get("/", cfg.Enrollments.ListMine)
	enrollments.Delete("/:courseId", cfg.Enrollments.Unenroll)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/teachers", cfg.Admin.ListTeachers)
	admin.Get("/students", cfg.Admin.ListStudents)
	admin.Delete("/accounts/:id", cfg.Admin.DeleteAccount)
	admin.Get("/courses", cfg.Admin.CourseOverview)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
