package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
)

// CourseRepository handles catalog reads and course creation. Lesson counts
// reported here feed both the bonus deadline and the completion bonus math.
type CourseRepository struct {
	BaseRepository
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *CourseRepository) GetCourse(courseID string) (*model.Course, error) {
	var course model.Course
	err := r.db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("module_order") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lesson_order") }).
		Where("id = ?", courseID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListActiveCourses(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

// LessonCount is the total number of lessons in the course, across modules.
func (r *CourseRepository) LessonCount(courseID string) (int, error) {
	var count int64
	err := r.db.Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Count(&count).Error
	return int(count), err
}

// GetLesson loads a lesson with its module so callers can check course
// membership.
func (r *CourseRepository) GetLesson(lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.Preload("Module").Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) EnrollmentCounts(courseID string) (total, active, completed int, err error) {
	var t, a int64
	if err = r.db.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&t).Error; err != nil {
		return
	}
	if err = r.db.Model(&model.Enrollment{}).Where("course_id = ? AND completed_at IS NULL", courseID).Count(&a).Error; err != nil {
		return
	}
	total, active = int(t), int(a)
	completed = total - active
	return
}

// CreateCourse persists a course with its modules and lessons in one
// transaction.
func (r *CourseRepository) CreateCourse(creatorID string, req dto.CreateCourseRequest) (*model.Course, error) {
	now := time.Now()
	course := &model.Course{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Link:        req.Link,
		CreatorID:   creatorID,
		IsActive:    true,
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for mi, m := range req.Modules {
			module := &model.Module{
				ID:          uuid.New().String(),
				CourseID:    course.ID,
				Name:        m.Name,
				Description: m.Description,
				ModuleOrder: mi + 1,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(module).Error; err != nil {
				return err
			}
			for li, l := range m.Lessons {
				lesson := &model.Lesson{
					ID:          uuid.New().String(),
					ModuleID:    module.ID,
					Name:        l.Name,
					Description: l.Description,
					LessonOrder: li + 1,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := tx.Create(lesson).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourseCascade removes a course together with its modules, lessons,
// enrollments, completed lessons and daily activities. Used when the last
// enrolled creator leaves.
func (r *CourseRepository) DeleteCourseCascade(tx *gorm.DB, courseID string) error {
	lessonSub := tx.Model(&model.Lesson{}).Select("lessons.id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID)
	enrollmentSub := tx.Model(&model.Enrollment{}).Select("id").Where("course_id = ?", courseID)

	if err := tx.Where("enrollment_id IN (?)", enrollmentSub).Delete(&model.CompletedLesson{}).Error; err != nil {
		return err
	}
	if err := tx.Where("enrollment_id IN (?)", enrollmentSub).Delete(&model.DailyActivity{}).Error; err != nil {
		return err
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id IN (?)", lessonSub).Delete(&model.Lesson{}).Error; err != nil {
		return err
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&model.Module{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", courseID).Delete(&model.Course{}).Error
}
