package model

import "time"

// ActivityDateLayout is the calendar-day key format for daily activities.
// Dates are computed in the user's timezone before formatting.
const ActivityDateLayout = "2006-01-02"

// DailyActivity is one row per (user, enrollment, calendar day in the user's
// timezone). The lesson counter is scoped to the enrollment; the active-day
// and time-bonus awards are scoped to the user and day, across all of the
// user's rows for that date.
type DailyActivity struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID           string `json:"user_id" gorm:"not null;uniqueIndex:idx_daily_user_enrollment_date;index:idx_daily_user_date"`
	EnrollmentID     string `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_daily_user_enrollment_date;index"`
	ActivityDate     string `json:"activity_date" gorm:"not null;uniqueIndex:idx_daily_user_enrollment_date;index:idx_daily_user_date"`
	LessonsCompleted int    `json:"lessons_completed" gorm:"not null;default:0"`
	TimeBonusEarned  bool   `json:"time_bonus_earned" gorm:"not null;default:false"`
	TimeBonusType    string `json:"time_bonus_type"` // morning, evening or empty

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Learning activity kinds. Entries mirror every point mutation so the
// balance can be audited against the log.
const (
	ActivityLessonCompleted  = "lesson_completed"
	ActivityLessonsCompleted = "lessons_completed" // daily active-day / time-bonus award
	ActivityCourseStarted    = "course_started"
	ActivityCourseCompleted  = "course_completed"
)

// LearningActivity is an audit record of a learning event. Entries are
// never updated, and removed only when their enrollment is: leaving a
// course deletes the enrollment's entries along with the points they
// carried. PointsEarned is nil for events that carry no points.
type LearningActivity struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string    `json:"user_id" gorm:"not null;index:idx_learning_user_created"`
	EnrollmentID string    `json:"enrollment_id" gorm:"not null;index"`
	LessonID     *string   `json:"lesson_id"`
	ActivityType string    `json:"activity_type" gorm:"not null;index"`
	PointsEarned *int      `json:"points_earned"`
	CreatedAt    time.Time `json:"created_at" gorm:"index:idx_learning_user_created"`
}
