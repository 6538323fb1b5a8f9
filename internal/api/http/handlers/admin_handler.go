package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/observability"
	"github.com/spec-kit/course-service/internal/service"
)

// AdminHandler exposes privileged account and catalog management endpoints.
// Routes using it are guarded by the ADMIN role middleware.
type AdminHandler struct {
	admin   *service.AdminService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{admin: adminService, metrics: metrics}
}

// ListTeachers handles GET /admin/teachers.
func (h *AdminHandler) ListTeachers(c *fiber.Ctx) error {
	accounts, err := h.admin.ListTeachers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListStudents handles GET /admin/students.
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	accounts, err := h.admin.ListStudents(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteAccount handles DELETE /admin/accounts/:id.
func (h *AdminHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.admin.DeleteAccount(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// CourseOverview handles GET /admin/courses.
func (h *AdminHandler) CourseOverview(c *fiber.Ctx) error {
	listings, err := h.admin.CourseOverview(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CourseListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, dto.NewCourseListingResponse(listing))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Metrics handles GET /admin/metrics, a diagnostic counter dump.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"requests": requests,
			"errors":   errs,
		},
	})
}
