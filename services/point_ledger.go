package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
	"github.com/praxis-learning/praxis_api/shared"
)

// PointLedgerService is the single entry point for every point mutation:
// lesson completions, their reversals, course completions, and the deduction
// applied when a user leaves a course. Each operation runs as one atomic
// transaction so the balance can never drift from the activity log.
type PointLedgerService struct {
	context.DefaultService

	sqlSvc SqlService

	ledger *ActivityLedger
	engine *CompletionEngine

	userRepo       *repositories.UserRepository
	courseRepo     *repositories.CourseRepository
	enrollmentRepo *repositories.EnrollmentRepository
}

const POINT_LEDGER_SVC = "point_ledger_svc"

func (svc PointLedgerService) Id() string {
	return POINT_LEDGER_SVC
}

func (svc *PointLedgerService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *PointLedgerService) Start() error {
	svc.sqlSvc = svc.Service(StorageServiceID()).(SqlService)

	db := svc.sqlSvc.Db()
	svc.ledger = NewActivityLedger(db)
	svc.engine = NewCompletionEngine(db)
	svc.userRepo = repositories.NewUserRepository(db)
	svc.courseRepo = repositories.NewCourseRepository(db)
	svc.enrollmentRepo = repositories.NewEnrollmentRepository(db)

	return nil
}

// CompleteLesson records one finished lesson for the user's enrollment in
// the lesson's course. It awards the flat lesson point plus whatever daily
// bonuses the activity ledger grants, and reports whether the course is now
// eligible for completion.
func (svc *PointLedgerService) CompleteLesson(userID, lessonID string, req *dto.CompleteLessonRequest) (*dto.CompleteLessonResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	now := time.Now().UTC()
	var resp *dto.CompleteLessonResponse

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		lesson, err := repositories.NewCourseRepository(tx).GetLesson(lessonID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return shared.NewNotFoundError(err, "Lesson not found")
			}
			return err
		}

		var enrollment model.Enrollment
		err = tx.Where("user_id = ? AND course_id = ? AND completed_at IS NULL", userID, lesson.Module.CourseID).
			First(&enrollment).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return shared.NewBadRequestError(err, "You are not enrolled in this course")
			}
			return err
		}

		var existing int64
		err = tx.Model(&model.CompletedLesson{}).
			Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessonID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return shared.NewConflictError(nil, "Lesson already completed")
		}

		completed := &model.CompletedLesson{
			ID:           uuid.New().String(),
			EnrollmentID: enrollment.ID,
			LessonID:     lessonID,
			Summary:      req.Summary,
			Link:         req.Link,
			CreatedAt:    now,
		}
		if err := tx.Create(completed).Error; err != nil {
			return err
		}

		if err := addPointsTx(tx, userID, points.LessonCompleted); err != nil {
			return err
		}
		earned := points.LessonCompleted
		entry := &model.LearningActivity{
			UserID:       userID,
			EnrollmentID: enrollment.ID,
			LessonID:     &completed.LessonID,
			ActivityType: model.ActivityLessonCompleted,
			PointsEarned: &earned,
			CreatedAt:    now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		ledgerResult, err := svc.ledger.RecordTx(tx, userID, enrollment.ID, now, user.Timezone)
		if err != nil {
			return err
		}

		var totalLessons int64
		err = tx.Model(&model.Lesson{}).
			Joins("JOIN modules ON modules.id = lessons.module_id").
			Where("modules.course_id = ?", lesson.Module.CourseID).
			Count(&totalLessons).Error
		if err != nil {
			return err
		}
		var done int64
		err = tx.Model(&model.CompletedLesson{}).
			Where("enrollment_id = ?", enrollment.ID).
			Count(&done).Error
		if err != nil {
			return err
		}
		if done > totalLessons {
			log.WithFields(log.Fields{
				"enrollment_id": enrollment.ID,
				"completed":     done,
				"lessons":       totalLessons,
			}).Error("More completed lessons than the course has")
			return shared.NewInternalError(nil, "Enrollment state is inconsistent")
		}

		resp = &dto.CompleteLessonResponse{
			CompletedLessonID: completed.ID,
			LessonPoints:      points.LessonCompleted,
			BonusPoints:       ledgerResult.PointsAwarded,
			TimeBonusType:     string(ledgerResult.Window),
			AllLessonsDone:    done == totalLessons,
		}
		if !ledgerResult.TimeBonusAwarded {
			resp.TimeBonusType = ""
		}
		return nil
	})
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			return nil, appErr
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	lessonsCompletedTotal.Inc()
	recordPointsAwarded("lesson", points.LessonCompleted)
	return resp, nil
}

// DeleteCompletedLesson removes a lesson-completion record and takes back
// the flat lesson point. The day's activity counters and any daily bonuses
// it triggered stay as they are; only the lesson point is reversed.
func (svc *PointLedgerService) DeleteCompletedLesson(userID, completedLessonID string) (*dto.DeleteCompletedLessonResponse, error) {
	var resp *dto.DeleteCompletedLessonResponse
	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var completed model.CompletedLesson
		err := tx.Preload("Enrollment").Where("id = ?", completedLessonID).First(&completed).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return shared.NewNotFoundError(err, "Completed lesson not found")
			}
			return err
		}
		if completed.Enrollment.UserID != userID {
			return shared.NewForbiddenError(nil, "Completed lesson belongs to another user")
		}
		if completed.Enrollment.IsCompleted() {
			return shared.NewConflictError(nil, "Course already completed")
		}

		if err := tx.Delete(&model.CompletedLesson{}, "id = ?", completed.ID).Error; err != nil {
			return err
		}
		if err := deductPointsTx(tx, userID, points.LessonCompleted); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"user_id":   userID,
			"lesson_id": completed.LessonID,
			"deducted":  points.LessonCompleted,
		}).Info("Lesson completion reversed")

		resp = &dto.DeleteCompletedLessonResponse{PointsDeducted: points.LessonCompleted}
		return nil
	})
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			return nil, appErr
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	recordPointsReversed("lesson_deleted", resp.PointsDeducted)
	return resp, nil
}

// CompleteCourse finalizes the user's enrollment in a course with a written
// reflection and pays the completion bonus.
func (svc *PointLedgerService) CompleteCourse(userID, courseID string, req *dto.CompleteCourseRequest) (*dto.CompleteCourseResponse, error) {
	enrollment, err := svc.enrollmentRepo.GetActiveEnrollmentForCourse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewBadRequestError(err, "You are not enrolled in this course")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	result, err := svc.engine.CompleteWithReflection(userID, enrollment.ID, req.Reflection, req.ReflectionLink, time.Now().UTC())
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			return nil, appErr
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	coursesCompletedTotal.Inc()
	recordPointsAwarded("course_bonus", result.BonusPoints)

	return &dto.CompleteCourseResponse{
		CompletedAt:     *result.Enrollment.CompletedAt,
		CompletedOnTime: result.OnTime,
		BonusPoints:     result.BonusPoints,
		TotalPoints:     points.TotalCoursePoints(result.LessonCount, result.OnTime),
	}, nil
}

// LeaveCourse removes the user's enrollment in a course. Every point the
// enrollment earned is taken back: the flat lesson points plus, for a
// completed enrollment, the course bonus recomputed against the stored
// completion timestamp. When the leaving user created the course and nobody
// else is enrolled, the course itself is removed.
func (svc *PointLedgerService) LeaveCourse(userID, courseID string) (*dto.LeaveCourseResponse, error) {
	var resp *dto.LeaveCourseResponse
	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return shared.NewBadRequestError(err, "You are not enrolled in this course")
			}
			return err
		}

		var course model.Course
		if err := tx.Where("id = ?", courseID).First(&course).Error; err != nil {
			return err
		}

		var lessonsDone int64
		err = tx.Model(&model.CompletedLesson{}).
			Where("enrollment_id = ?", enrollment.ID).
			Count(&lessonsDone).Error
		if err != nil {
			return err
		}

		deduction := int(lessonsDone) * points.LessonCompleted
		if enrollment.IsCompleted() {
			var lessonCount int64
			err = tx.Model(&model.Lesson{}).
				Joins("JOIN modules ON modules.id = lessons.module_id").
				Where("modules.course_id = ?", courseID).
				Count(&lessonCount).Error
			if err != nil {
				return err
			}
			deduction += points.CourseBonus(int(lessonCount), enrollment.CompletedOnTime())
		}

		if deduction > 0 {
			if err := deductPointsTx(tx, userID, deduction); err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.CompletedLesson{}, "enrollment_id = ?", enrollment.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.DailyActivity{}, "enrollment_id = ?", enrollment.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.LearningActivity{}, "enrollment_id = ?", enrollment.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Enrollment{}, "id = ?", enrollment.ID).Error; err != nil {
			return err
		}

		err = tx.Model(&model.User{}).
			Where("id = ? AND enrollment_id = ?", userID, enrollment.ID).
			Update("enrollment_id", nil).Error
		if err != nil {
			return err
		}

		courseDeleted := false
		if course.CreatorID == userID {
			var remaining int64
			err = tx.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&remaining).Error
			if err != nil {
				return err
			}
			if remaining == 0 {
				if err := svc.courseRepo.DeleteCourseCascade(tx, courseID); err != nil {
					return err
				}
				courseDeleted = true
			}
		}

		log.WithFields(log.Fields{
			"user_id":        userID,
			"course_id":      courseID,
			"deducted":       deduction,
			"course_deleted": courseDeleted,
		}).Info("User left course")

		resp = &dto.LeaveCourseResponse{PointsDeducted: deduction, CourseDeleted: courseDeleted}
		return nil
	})
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			return nil, appErr
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	recordPointsReversed("left_course", resp.PointsDeducted)
	return resp, nil
}

// deductPointsTx takes delta points off the user's balance after verifying,
// under the row lock, that the balance will not go negative. A would-be
// negative balance means the books are already wrong, so the operation is
// refused instead of clamping.
func deductPointsTx(tx *gorm.DB, userID string, delta int) error {
	var user model.User
	if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
		return err
	}
	if user.Points < delta {
		log.WithFields(log.Fields{
			"user_id": userID,
			"balance": user.Points,
			"deduct":  delta,
		}).Error("Point deduction would drive balance negative")
		return shared.NewInternalError(nil, "Point balance is inconsistent")
	}
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points - ?", delta)).Error
}
