package services

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/shared"
)

// CompletionEngine finalizes enrollments: it verifies every lesson is done,
// stamps the completion, and pays the course bonus against the deadline.
type CompletionEngine struct {
	db *gorm.DB
}

func NewCompletionEngine(db *gorm.DB) *CompletionEngine {
	return &CompletionEngine{db: db}
}

// CompletionResult reports the outcome of completing an enrollment.
type CompletionResult struct {
	Enrollment  *model.Enrollment
	OnTime      bool
	BonusPoints int
	LessonCount int
}

// CompleteWithReflection moves an enrollment into its terminal completed
// state. The enrollment must belong to userID, must not already be
// completed, and every lesson of the course must have a completion record.
func (e *CompletionEngine) CompleteWithReflection(userID, enrollmentID, reflection string, reflectionLink *string, now time.Time) (*CompletionResult, error) {
	var result *CompletionResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = e.completeTx(tx, userID, enrollmentID, reflection, reflectionLink, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *CompletionEngine) completeTx(tx *gorm.DB, userID, enrollmentID, reflection string, reflectionLink *string, now time.Time) (*CompletionResult, error) {
	var enrollment model.Enrollment
	if err := lockForUpdate(tx).Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError(err, "Enrollment not found")
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, shared.NewForbiddenError(nil, "Enrollment belongs to another user")
	}
	if enrollment.IsCompleted() {
		return nil, shared.NewConflictError(nil, "Course already completed")
	}

	var lessonCount int64
	err := tx.Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", enrollment.CourseID).
		Count(&lessonCount).Error
	if err != nil {
		return nil, err
	}

	var completedCount int64
	err = tx.Model(&model.CompletedLesson{}).
		Where("enrollment_id = ?", enrollment.ID).
		Count(&completedCount).Error
	if err != nil {
		return nil, err
	}
	if completedCount < lessonCount {
		return nil, shared.NewBadRequestError(nil, "All lessons must be completed first")
	}

	onTime := !now.After(enrollment.BonusDeadline)
	bonus := points.CourseBonus(int(lessonCount), onTime)

	completedAt := now
	updates := map[string]interface{}{
		"completed_at":      completedAt,
		"course_reflection": reflection,
	}
	if reflectionLink != nil {
		updates["course_reflection_link"] = *reflectionLink
	}
	if err := tx.Model(&model.Enrollment{}).Where("id = ?", enrollment.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	enrollment.CompletedAt = &completedAt
	enrollment.CourseReflection = &reflection
	enrollment.CourseReflectionLink = reflectionLink

	if bonus > 0 {
		if err := addPointsTx(tx, userID, bonus); err != nil {
			return nil, err
		}
	}

	earned := bonus
	entry := &model.LearningActivity{
		UserID:       userID,
		EnrollmentID: enrollment.ID,
		ActivityType: model.ActivityCourseCompleted,
		PointsEarned: &earned,
		CreatedAt:    now,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}

	// The active-enrollment pointer frees up once its course is done.
	err = tx.Model(&model.User{}).
		Where("id = ? AND enrollment_id = ?", userID, enrollment.ID).
		Update("enrollment_id", nil).Error
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":       userID,
		"enrollment_id": enrollment.ID,
		"course_id":     enrollment.CourseID,
		"on_time":       onTime,
		"bonus_points":  bonus,
	}).Info("Course completed")

	return &CompletionResult{
		Enrollment:  &enrollment,
		OnTime:      onTime,
		BonusPoints: bonus,
		LessonCount: int(lessonCount),
	}, nil
}
