package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/shared"
)

type FeedHandler struct {
	feedSvc FeedServiceInterface
}

func NewFeedHandler(feedSvc FeedServiceInterface) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

// @Summary Recent activity feed
// @Description Latest learning activity across all users
// @Tags feed
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.FeedResponse}
// @Router /api/v1/feed [get]
func (h *FeedHandler) GetRecentFeed(c *fiber.Ctx) error {
	resp, err := h.feedSvc.GetRecentFeed()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Own activity feed
// @Description The caller's learning activity, filterable by date range
// @Tags feed
// @Accept json
// @Produce json
// @Security Bearer
// @Param since query string false "Start date (YYYY-MM-DD)"
// @Param until query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} shared.Response{data=dto.FeedResponse}
// @Router /api/v1/me/feed [get]
func (h *FeedHandler) GetUserFeed(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	since := time.Time{}
	until := time.Now().UTC()

	if s := c.Query("since"); s != "" {
		parsed, err := time.Parse(model.ActivityDateLayout, s)
		if err != nil {
			return shared.ResponseBadRequest(c, "since must be formatted YYYY-MM-DD")
		}
		since = parsed
	}
	if u := c.Query("until"); u != "" {
		parsed, err := time.Parse(model.ActivityDateLayout, u)
		if err != nil {
			return shared.ResponseBadRequest(c, "until must be formatted YYYY-MM-DD")
		}
		until = parsed.AddDate(0, 0, 1)
	}

	resp, err := h.feedSvc.GetUserFeed(userID, since, until)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Activity calendar
// @Description Per-day lesson counts and bonus flags for the caller
// @Tags feed
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.CalendarResponse}
// @Router /api/v1/me/calendar [get]
func (h *FeedHandler) GetCalendar(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.feedSvc.GetCalendar(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
