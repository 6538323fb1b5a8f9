package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// CoursesHandler manages catalog endpoints.
type CoursesHandler struct {
	courses     *service.CourseService
	enrollments *service.EnrollmentService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courseService *service.CourseService, enrollmentService *service.EnrollmentService) *CoursesHandler {
	return &CoursesHandler{courses: courseService, enrollments: enrollmentService}
}

// Create handles POST /courses.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	course, err := h.courses.Create(c.UserContext(), principal.Account, service.CourseCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

// Update handles PUT /courses/:id.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	course, err := h.courses.Update(c.UserContext(), principal.Account, c.Params("id"), service.CourseUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

// Delete handles DELETE /courses/:id.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.courses.Delete(c.UserContext(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ListAll handles GET /courses. The catalog is public; an optional "search"
// query filters on title or description.
func (h *CoursesHandler) ListAll(c *fiber.Ctx) error {
	listings, err := h.courses.ListAll(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	items := make([]dto.CourseListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, dto.NewCourseListingResponse(listing))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /courses/:id. Public, like the catalog listing.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	course, err := h.courses.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

// ListMine handles GET /courses/mine for teachers.
func (h *CoursesHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	listings, err := h.courses.ListByTeacher(c.UserContext(), principal.Account.ID)
	if err != nil {
		return err
	}
	items := make([]dto.CourseListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, dto.NewCourseListingResponse(listing))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Roster handles GET /courses/:id/students for the owning teacher or admin.
func (h *CoursesHandler) Roster(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	course, err := h.courses.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !h.courses.CanViewRoster(principal.Account, course) {
		return apperrors.NewForbidden("not the course owner")
	}

	roster, err := h.enrollments.ListForCourse(c.UserContext(), course.ID)
	if err != nil {
		return err
	}
	students := make([]dto.AccountResponse, 0, len(roster.Students))
	for i := range roster.Students {
		students = append(students, dto.NewAccountResponse(&roster.Students[i]))
	}
	return c.JSON(fiber.Map{"data": dto.CourseRosterResponse{Count: roster.Count, Students: students}})
}
