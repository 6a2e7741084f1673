package dto

import "time"

type LeaderboardUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
}

type LeaderboardEntry struct {
	Rank             int             `json:"rank"`
	User             LeaderboardUser `json:"user"`
	Points           int             `json:"points,omitempty"`
	LessonsCompleted int             `json:"lessons_completed,omitempty"`
	HasTimeBonus     bool            `json:"has_time_bonus,omitempty"`
	TimeBonusType    string          `json:"time_bonus_type,omitempty"`
}

type LeaderboardResponse struct {
	Period      string             `json:"period"`
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentRank int                `json:"current_rank,omitempty"`
}

type FeedEntry struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	EnrollmentID string    `json:"enrollment_id"`
	CourseName   string    `json:"course_name,omitempty"`
	LessonID     *string   `json:"lesson_id,omitempty"`
	LessonName   string    `json:"lesson_name,omitempty"`
	ActivityType string    `json:"activity_type"`
	PointsEarned *int      `json:"points_earned"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type FeedResponse struct {
	Entries []FeedEntry `json:"entries"`
}
