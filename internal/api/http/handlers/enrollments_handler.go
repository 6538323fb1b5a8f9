package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// EnrollmentsHandler manages student enrollment endpoints.
type EnrollmentsHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentsHandler constructs handler.
func NewEnrollmentsHandler(enrollmentService *service.EnrollmentService) *EnrollmentsHandler {
	return &EnrollmentsHandler{enrollments: enrollmentService}
}

// Enroll handles POST /enrollments.
func (h *EnrollmentsHandler) Enroll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	enrollment, err := h.enrollments.Enroll(c.UserContext(), principal.Account.ID, req.CourseID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEnrollmentResponse(enrollment)})
}

// Unenroll handles DELETE /enrollments/:courseId.
func (h *EnrollmentsHandler) Unenroll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.enrollments.Unenroll(c.UserContext(), principal.Account.ID, c.Params("courseId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unenrolled": true}})
}

// ListMine handles GET /enrollments for the authenticated student.
func (h *EnrollmentsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	courses, err := h.enrollments.ListForStudent(c.UserContext(), principal.Account.ID)
	if err != nil {
		return err
	}
	items := make([]dto.StudentCourseResponse, 0, len(courses))
	for _, sc := range courses {
		items = append(items, dto.NewStudentCourseResponse(sc))
	}
	return c.JSON(fiber.Map{"data": items})
}
