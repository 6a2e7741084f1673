package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
)

// newTestDB opens a fresh in-memory database per test. The shared cache
// keeps the schema alive across the connections gorm pools.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// testSqlService satisfies SqlService for tests without the container.
type testSqlService struct {
	db *gorm.DB
}

func (s *testSqlService) Db() *gorm.DB {
	return s.db
}

func (s *testSqlService) HandleError(err error) error {
	return err
}

// noBonusWindows disables the time-of-day bonus so tests driven by the
// wall clock stay deterministic.
var noBonusWindows = points.WindowConfig{}

// newTestLedgerService wires a PointLedgerService straight onto db.
func newTestLedgerService(t *testing.T, db *gorm.DB) *PointLedgerService {
	t.Helper()

	return &PointLedgerService{
		sqlSvc:         &testSqlService{db: db},
		ledger:         NewActivityLedgerWithWindows(db, noBonusWindows),
		engine:         NewCompletionEngine(db),
		userRepo:       repositories.NewUserRepository(db),
		courseRepo:     repositories.NewCourseRepository(db),
		enrollmentRepo: repositories.NewEnrollmentRepository(db),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username, timezone string) *model.User {
	t.Helper()

	user := &model.User{
		ID:       uuid.New().String(),
		Email:    username + "@test.local",
		Username: username,
		Password: "irrelevant",
		Timezone: timezone,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestCourse builds a course owned by creatorID with one module per
// entry in lessonsPerModule holding that many lessons. Lesson IDs come back
// in course order.
func createTestCourse(t *testing.T, db *gorm.DB, creatorID string, lessonsPerModule ...int) (*model.Course, []string) {
	t.Helper()

	course := &model.Course{
		ID:        uuid.New().String(),
		Name:      "Course " + uuid.New().String()[:8],
		CreatorID: creatorID,
		IsActive:  true,
		IsPublic:  true,
	}
	require.NoError(t, db.Create(course).Error)

	var lessonIDs []string
	for mi, count := range lessonsPerModule {
		module := &model.Module{
			ID:          uuid.New().String(),
			CourseID:    course.ID,
			Name:        fmt.Sprintf("Module %d", mi+1),
			ModuleOrder: mi + 1,
		}
		require.NoError(t, db.Create(module).Error)

		for li := 0; li < count; li++ {
			lesson := &model.Lesson{
				ID:          uuid.New().String(),
				ModuleID:    module.ID,
				Name:        fmt.Sprintf("Lesson %d.%d", mi+1, li+1),
				LessonOrder: li + 1,
			}
			require.NoError(t, db.Create(lesson).Error)
			lessonIDs = append(lessonIDs, lesson.ID)
		}
	}

	return course, lessonIDs
}

// enrollTestUser creates an enrollment with the deadline the course's lesson
// count dictates and points the user's active-enrollment slot at it.
func enrollTestUser(t *testing.T, db *gorm.DB, user *model.User, course *model.Course, startedAt time.Time) *model.Enrollment {
	t.Helper()

	var lessonCount int64
	require.NoError(t, db.Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", course.ID).
		Count(&lessonCount).Error)

	enrollment := &model.Enrollment{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		CourseID:      course.ID,
		BonusDeadline: points.Deadline(startedAt, int(lessonCount)),
		CreatedAt:     startedAt,
	}
	require.NoError(t, db.Create(enrollment).Error)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("enrollment_id", enrollment.ID).Error)

	user.EnrollmentID = &enrollment.ID
	return enrollment
}

func userBalance(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()

	var user model.User
	require.NoError(t, db.Where("id = ?", userID).First(&user).Error)
	return user.Points
}
