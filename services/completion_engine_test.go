package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/shared"
)

func completeAllLessons(t *testing.T, db *gorm.DB, enrollmentID string, lessonIDs []string) {
	t.Helper()

	for _, lessonID := range lessonIDs {
		require.NoError(t, db.Create(&model.CompletedLesson{
			ID:           uuid.New().String(),
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
			Summary:      "done",
		}).Error)
	}
}

func TestCompletionEngine_OnTimeCompletion(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 5, 5) // 10 lessons, 14 day deadline
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	enrollment := enrollTestUser(t, db, user, course, start)
	engine := NewCompletionEngine(db)

	completeAllLessons(t, db, enrollment.ID, lessonIDs)

	completedAt := start.AddDate(0, 0, 10)
	result, err := engine.CompleteWithReflection(user.ID, enrollment.ID, "a written reflection", nil, completedAt)
	require.NoError(t, err)

	assert.True(t, result.OnTime)
	assert.Equal(t, 5, result.BonusPoints, "half of ten lessons")
	assert.Equal(t, 10, result.LessonCount)
	assert.Equal(t, 5, userBalance(t, db, user.ID))

	var stored model.Enrollment
	require.NoError(t, db.Where("id = ?", enrollment.ID).First(&stored).Error)
	require.NotNil(t, stored.CompletedAt)
	require.NotNil(t, stored.CourseReflection)
	assert.Equal(t, "a written reflection", *stored.CourseReflection)

	var refreshed model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&refreshed).Error)
	assert.Nil(t, refreshed.EnrollmentID, "completion frees the active-enrollment slot")

	var entry model.LearningActivity
	require.NoError(t, db.Where("enrollment_id = ? AND activity_type = ?", enrollment.ID, model.ActivityCourseCompleted).
		First(&entry).Error)
	require.NotNil(t, entry.PointsEarned)
	assert.Equal(t, 5, *entry.PointsEarned)
}

func TestCompletionEngine_LateCompletionPaysTheReducedBonus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 10) // 10 lessons, 14 day deadline
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	enrollment := enrollTestUser(t, db, user, course, start)
	engine := NewCompletionEngine(db)

	completeAllLessons(t, db, enrollment.ID, lessonIDs)

	completedAt := start.AddDate(0, 0, 20)
	result, err := engine.CompleteWithReflection(user.ID, enrollment.ID, "late reflection", nil, completedAt)
	require.NoError(t, err)

	assert.False(t, result.OnTime)
	assert.Equal(t, 2, result.BonusPoints, "a quarter of ten lessons")
	assert.Equal(t, 2, userBalance(t, db, user.ID))
}

func TestCompletionEngine_ExactDeadlineIsOnTime(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 10)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	enrollment := enrollTestUser(t, db, user, course, start)
	engine := NewCompletionEngine(db)

	completeAllLessons(t, db, enrollment.ID, lessonIDs)

	result, err := engine.CompleteWithReflection(user.ID, enrollment.ID, "reflection", nil, enrollment.BonusDeadline)
	require.NoError(t, err)
	assert.True(t, result.OnTime)
}

func TestCompletionEngine_RefusesWhileLessonsRemain(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 4)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	engine := NewCompletionEngine(db)

	completeAllLessons(t, db, enrollment.ID, lessonIDs[:3])

	_, err := engine.CompleteWithReflection(user.ID, enrollment.ID, "reflection", nil, time.Now())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Zero(t, userBalance(t, db, user.ID), "no bonus on a refused completion")
}

func TestCompletionEngine_CompletionIsTerminal(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 4)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	engine := NewCompletionEngine(db)

	completeAllLessons(t, db, enrollment.ID, lessonIDs)

	_, err := engine.CompleteWithReflection(user.ID, enrollment.ID, "first", nil, time.Now())
	require.NoError(t, err)

	_, err = engine.CompleteWithReflection(user.ID, enrollment.ID, "second", nil, time.Now())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestCompletionEngine_RejectsForeignEnrollments(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "UTC")
	other := createTestUser(t, db, "bob", "UTC")
	course, lessonIDs := createTestCourse(t, db, owner.ID, 4)
	enrollment := enrollTestUser(t, db, owner, course, time.Now())
	engine := NewCompletionEngine(db)

	completeAllLessons(t, db, enrollment.ID, lessonIDs)

	_, err := engine.CompleteWithReflection(other.ID, enrollment.ID, "reflection", nil, time.Now())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestCompletionEngine_UnknownEnrollment(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	engine := NewCompletionEngine(db)

	_, err := engine.CompleteWithReflection(user.ID, uuid.New().String(), "reflection", nil, time.Now())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
