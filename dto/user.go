package dto

import "time"

type UserProfileResponse struct {
	UserID        string     `json:"user_id"`
	Username      string     `json:"username"`
	FullName      string     `json:"full_name"`
	DisplayName   string     `json:"display_name"`
	Avatar        string     `json:"avatar"`
	Title         string     `json:"title"`
	Bio           string     `json:"bio"`
	WebsiteURL    string     `json:"website_url"`
	IsPublic      bool       `json:"is_public"`
	Points        int        `json:"points"`
	Timezone      string     `json:"timezone"`
	JoinedAt      time.Time  `json:"joined_at"`
	EnrollmentID  *string    `json:"enrollment_id"`
	LastCompleted *time.Time `json:"last_completed_course_at,omitempty"`

	// Point-threshold unlocks derived from the balance.
	CanUploadAvatar   bool `json:"can_upload_avatar"`
	CanSetCustomTitle bool `json:"can_set_custom_title"`
	OnLeaderboard     bool `json:"on_leaderboard"`
}

type UpdateProfileRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,max=100"`
	Title      *string `json:"title" validate:"omitempty,max=60"`
	Bio        *string `json:"bio" validate:"omitempty,max=1000"`
	WebsiteURL *string `json:"website_url" validate:"omitempty,url,max=255"`
	IsPublic   *bool   `json:"is_public"`
	Timezone   *string `json:"timezone" validate:"omitempty,timezone"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AvatarUploadResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// CalendarDayResponse aggregates a user's activity rows for one calendar
// day across all enrollments.
type CalendarDayResponse struct {
	Date             string `json:"date"`
	LessonsCompleted int    `json:"lessons_completed"`
	PointsEarned     int    `json:"points_earned"`
	TimeBonusEarned  bool   `json:"time_bonus_earned"`
	TimeBonusType    string `json:"time_bonus_type,omitempty"`

	Courses []CalendarCourseEntry `json:"courses"`
}

type CalendarCourseEntry struct {
	CourseID         string `json:"course_id"`
	CourseName       string `json:"course_name"`
	LessonsCompleted int    `json:"lessons_completed"`
}

type CalendarResponse struct {
	Days []CalendarDayResponse `json:"days"`
}
