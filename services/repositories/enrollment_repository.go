package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
)

// EnrollmentRepository handles enrollments and their completed-lesson join
// records.
type EnrollmentRepository struct {
	BaseRepository
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetActiveEnrollment returns the user's single enrollment with
// completed_at still null, if any.
func (r *EnrollmentRepository) GetActiveEnrollment(userID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.
		Where("user_id = ? AND completed_at IS NULL", userID).
		Order("created_at DESC").
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) GetActiveEnrollmentForCourse(userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.
		Where("user_id = ? AND course_id = ? AND completed_at IS NULL", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) GetCompletedEnrollmentForCourse(userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.
		Where("user_id = ? AND course_id = ? AND completed_at IS NOT NULL", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) CompletedEnrollments(userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CreateEnrollment(userID, courseID string, bonusDeadline time.Time) (*model.Enrollment, error) {
	now := time.Now()
	enrollment := &model.Enrollment{
		ID:            uuid.New().String(),
		UserID:        userID,
		CourseID:      courseID,
		BonusDeadline: bonusDeadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.Create(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *EnrollmentRepository) CountCompletedLessons(enrollmentID string) (int, error) {
	var count int64
	err := r.db.Model(&model.CompletedLesson{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&count).Error
	return int(count), err
}

func (r *EnrollmentRepository) GetCompletedLesson(enrollmentID, lessonID string) (*model.CompletedLesson, error) {
	var completed model.CompletedLesson
	err := r.db.
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&completed).Error
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

func (r *EnrollmentRepository) CompletedLessonIDs(enrollmentID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.CompletedLesson{}).
		Where("enrollment_id = ?", enrollmentID).
		Pluck("lesson_id", &ids).Error
	return ids, err
}

// CountActiveDays counts the distinct activity days recorded for this
// enrollment with at least one lesson completed.
func (r *EnrollmentRepository) CountActiveDays(enrollmentID string) (int, error) {
	var count int64
	err := r.db.Model(&model.DailyActivity{}).
		Where("enrollment_id = ? AND lessons_completed > 0", enrollmentID).
		Count(&count).Error
	return int(count), err
}
