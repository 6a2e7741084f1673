package dto

import "time"

type CourseResponse struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	Description            string         `json:"description"`
	Link                   string         `json:"link,omitempty"`
	IsPublic               bool           `json:"is_public"`
	IsFeatured             bool           `json:"is_featured"`
	LessonsCount           int            `json:"lessons_count"`
	ModulesCount           int            `json:"modules_count"`
	StudentsCount          int            `json:"students_count"`
	ActiveStudentsCount    int            `json:"active_students_count"`
	CompletedStudentsCount int            `json:"completed_students_count"`
	DeadlineDays           int            `json:"deadline_days"`
	IsEnrolled             bool           `json:"is_enrolled"`
	IsCompleted            bool           `json:"is_completed"`
	IsCreator              bool           `json:"is_creator"`
	CanJoin                bool           `json:"can_join"`
	Modules                []ModuleDetail `json:"modules,omitempty"`
}

type ModuleDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Order       int            `json:"order"`
	Lessons     []LessonDetail `json:"lessons"`
}

type LessonDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsCompleted bool   `json:"is_completed"`
}

type CourseCollectionResponse struct {
	Courses   []CourseResponse `json:"courses"`
	CanCreate bool             `json:"can_create"`
	CurrentID string           `json:"current_course_id,omitempty"`
}

type CreateCourseRequest struct {
	Name        string                `json:"name" validate:"required,max=120"`
	Description string                `json:"description" validate:"max=2000"`
	Link        string                `json:"link" validate:"omitempty,url,max=500"`
	IsPublic    bool                  `json:"is_public"`
	Modules     []CreateModuleRequest `json:"modules" validate:"required,min=1,dive"`
}

type CreateModuleRequest struct {
	Name        string                `json:"name" validate:"required,max=120"`
	Description string                `json:"description" validate:"max=2000"`
	Lessons     []CreateLessonRequest `json:"lessons" validate:"required,min=1,dive"`
}

type CreateLessonRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

func (r CreateCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

// EnrollmentStatusResponse is the derived status exposed for one enrollment:
// completion state, on-time flag and the points the course is worth.
type EnrollmentStatusResponse struct {
	EnrollmentID     string     `json:"enrollment_id"`
	CourseID         string     `json:"course_id"`
	StartedAt        time.Time  `json:"started_at"`
	BonusDeadline    time.Time  `json:"bonus_deadline"`
	CompletedAt      *time.Time `json:"completed_at"`
	CompletedOnTime  *bool      `json:"completed_on_time"`
	LessonsCompleted int        `json:"lessons_completed"`
	TotalLessons     int        `json:"total_lessons"`
	AllLessonsDone   bool       `json:"all_lessons_done"`
	ActiveDays       int        `json:"active_days"`
	PointsEarned     *int       `json:"points_earned"`
	Reflection       *string    `json:"course_reflection"`
	ReflectionLink   *string    `json:"course_reflection_link"`
	IsBonusEligible  bool       `json:"is_bonus_eligible"`
}

type JoinCourseResponse struct {
	EnrollmentID  string    `json:"enrollment_id"`
	BonusDeadline time.Time `json:"bonus_deadline"`
	DeadlineDays  int       `json:"deadline_days"`
}

type LeaveCourseResponse struct {
	PointsDeducted int  `json:"points_deducted"`
	CourseDeleted  bool `json:"course_deleted"`
}

type CompleteCourseRequest struct {
	Reflection     string  `json:"reflection" validate:"required,min=50,max=2000"`
	ReflectionLink *string `json:"reflection_link" validate:"omitempty,max=255"`
}

func (r CompleteCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteCourseResponse struct {
	CompletedAt     time.Time `json:"completed_at"`
	CompletedOnTime bool      `json:"completed_on_time"`
	BonusPoints     int       `json:"bonus_points"`
	TotalPoints     int       `json:"total_points"`
}
