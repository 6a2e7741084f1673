package model

import "time"

// Enrollment ties a user to a course. At most one enrollment per user has
// CompletedAt == nil (the active enrollment); the user's EnrollmentID points
// at it. Completion is terminal: CompletedAt is set exactly once, together
// with the course reflection.
type Enrollment struct {
	ID                   string     `json:"id" gorm:"primaryKey"`
	UserID               string     `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	CourseID             string     `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	CourseReflection     *string    `json:"course_reflection" gorm:"type:text"`
	CourseReflectionLink *string    `json:"course_reflection_link"`
	CompletedAt          *time.Time `json:"completed_at"`
	BonusDeadline        time.Time  `json:"bonus_deadline" gorm:"not null"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (e *Enrollment) IsCompleted() bool {
	return e.CompletedAt != nil
}

// CompletedOnTime reports whether the enrollment was finished at or before
// its bonus deadline. False while the enrollment is still active.
func (e *Enrollment) CompletedOnTime() bool {
	if e.CompletedAt == nil {
		return false
	}
	return !e.CompletedAt.After(e.BonusDeadline)
}

// CompletedLesson records that a lesson was finished under an enrollment,
// together with the learner's summary. Its creation is the single trigger
// for all point and daily-activity effects; its deletion triggers the flat
// lesson-point reversal.
type CompletedLesson struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	EnrollmentID string    `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_completed_enrollment_lesson"`
	LessonID     string    `json:"lesson_id" gorm:"not null;uniqueIndex:idx_completed_enrollment_lesson"`
	Summary      string    `json:"summary" gorm:"type:text;not null"`
	Link         string    `json:"link"`
	CreatedAt    time.Time `json:"created_at"`

	Enrollment Enrollment `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`
	Lesson     Lesson     `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}
