package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/shared"
)

type CourseHandler struct {
	courseSvc CourseServiceInterface
	ledgerSvc PointLedgerServiceInterface
}

func NewCourseHandler(courseSvc CourseServiceInterface, ledgerSvc PointLedgerServiceInterface) *CourseHandler {
	return &CourseHandler{
		courseSvc: courseSvc,
		ledgerSvc: ledgerSvc,
	}
}

// @Summary List courses
// @Description List the active course catalog with the caller's enrollment flags
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.CourseCollectionResponse}
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.courseSvc.ListCourses(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get course
// @Description Get one course with modules, lessons and per-lesson completion state
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.CourseResponse}
// @Router /api/v1/courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	resp, err := h.courseSvc.GetCourse(userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Create course
// @Description Create a course and enroll its creator
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param createCourseRequest body dto.CreateCourseRequest true "Course structure"
// @Success 201 {object} shared.Response{data=dto.JoinCourseResponse}
// @Router /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.courseSvc.CreateCourse(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Course created", resp)
}

// @Summary Join course
// @Description Enroll in a course and start the bonus deadline clock
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.JoinCourseResponse}
// @Router /api/v1/courses/{courseId}/join [post]
func (h *CourseHandler) JoinCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	resp, err := h.courseSvc.JoinCourse(userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Joined course", resp)
}

// @Summary Leave course
// @Description Leave a course and give back every point it earned
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.LeaveCourseResponse}
// @Router /api/v1/courses/{courseId}/leave [post]
func (h *CourseHandler) LeaveCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	resp, err := h.ledgerSvc.LeaveCourse(userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Left course", resp)
}

// @Summary Complete course
// @Description Finish a course with a reflection and collect the completion bonus
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param courseId path string true "Course ID"
// @Param completeCourseRequest body dto.CompleteCourseRequest true "Course reflection"
// @Success 200 {object} shared.Response{data=dto.CompleteCourseResponse}
// @Router /api/v1/courses/{courseId}/complete [post]
func (h *CourseHandler) CompleteCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	var req dto.CompleteCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.ledgerSvc.CompleteCourse(userID, courseID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Course completed", resp)
}

// @Summary Enrollment status
// @Description Progress, deadline and points summary for the caller's enrollment
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.EnrollmentStatusResponse}
// @Router /api/v1/courses/{courseId}/status [get]
func (h *CourseHandler) GetEnrollmentStatus(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	resp, err := h.courseSvc.GetEnrollmentStatus(userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
