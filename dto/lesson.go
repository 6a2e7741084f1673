package dto

type CompleteLessonRequest struct {
	Summary string `json:"summary" validate:"required,max=1000"`
	Link    string `json:"link" validate:"omitempty,url,max=500"`
}

func (r CompleteLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteLessonResponse struct {
	CompletedLessonID string `json:"completed_lesson_id"`
	LessonPoints      int    `json:"lesson_points"`
	BonusPoints       int    `json:"bonus_points"`
	TimeBonusType     string `json:"time_bonus_type,omitempty"`
	AllLessonsDone    bool   `json:"all_lessons_done"`
}

type DeleteCompletedLessonResponse struct {
	PointsDeducted int `json:"points_deducted"`
}
