package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/praxis-learning/praxis_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary Get leaderboard
// @Description Get rankings for one period: today, yesterday, this_month or overall
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param period path string true "Leaderboard period" Enums(today, yesterday, this_month, overall)
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/{period} [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	period := c.Params("period")

	userID := ""
	if uid := c.Locals(shared.UserID); uid != nil {
		userID = uid.(string)
	}

	resp, err := h.leaderboardSvc.GetLeaderboard(period, userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
