package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/shared"
)

type LessonHandler struct {
	ledgerSvc PointLedgerServiceInterface
}

func NewLessonHandler(ledgerSvc PointLedgerServiceInterface) *LessonHandler {
	return &LessonHandler{
		ledgerSvc: ledgerSvc,
	}
}

// @Summary Complete lesson
// @Description Record a finished lesson with a summary; awards the lesson point and any daily bonuses
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param completeLessonRequest body dto.CompleteLessonRequest true "Lesson summary"
// @Success 201 {object} shared.Response{data=dto.CompleteLessonResponse}
// @Router /api/v1/lessons/{lessonId}/complete [post]
func (h *LessonHandler) CompleteLesson(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	var req dto.CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.ledgerSvc.CompleteLesson(userID, lessonID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Lesson completed", resp)
}

// @Summary Delete lesson completion
// @Description Remove a completion record and take back the lesson point
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param completedLessonId path string true "Completed lesson ID"
// @Success 200 {object} shared.Response{data=dto.DeleteCompletedLessonResponse}
// @Router /api/v1/completed-lessons/{completedLessonId} [delete]
func (h *LessonHandler) DeleteCompletedLesson(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	completedLessonID := c.Params("completedLessonId")

	resp, err := h.ledgerSvc.DeleteCompletedLesson(userID, completedLessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lesson completion removed", resp)
}
