package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/services/repositories"
	"github.com/praxis-learning/praxis_api/shared"
)

func lessonReq() *dto.CompleteLessonRequest {
	return &dto.CompleteLessonRequest{Summary: "what I learned"}
}

func TestPointLedger_CompleteLessonAwardsFlatAndDailyPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 3)
	enrollTestUser(t, db, user, course, time.Now())

	resp, err := svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.LessonPoints)
	assert.Equal(t, 1, resp.BonusPoints, "first lesson of the day carries the active-day point")
	assert.Empty(t, resp.TimeBonusType)
	assert.False(t, resp.AllLessonsDone)
	assert.Equal(t, 2, userBalance(t, db, user.ID))

	resp, err = svc.CompleteLesson(user.ID, lessonIDs[1], lessonReq())
	require.NoError(t, err)
	assert.Zero(t, resp.BonusPoints)
	assert.Equal(t, 3, userBalance(t, db, user.ID))
}

func TestPointLedger_CompleteLessonIsIdempotentPerLesson(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 3)
	enrollTestUser(t, db, user, course, time.Now())

	_, err := svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	require.NoError(t, err)
	balance := userBalance(t, db, user.ID)

	_, err = svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Equal(t, balance, userBalance(t, db, user.ID), "the refused attempt moves no points")

	var count int64
	require.NoError(t, db.Model(&model.CompletedLesson{}).Where("lesson_id = ?", lessonIDs[0]).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPointLedger_CompleteLessonRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	creator := createTestUser(t, db, "bob", "UTC")
	_, lessonIDs := createTestCourse(t, db, creator.ID, 3)

	_, err := svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestPointLedger_CompleteLessonUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")

	_, err := svc.CompleteLesson(user.ID, uuid.New().String(), lessonReq())
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestPointLedger_LastLessonReportsCourseEligible(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 2, 1)
	enrollTestUser(t, db, user, course, time.Now())

	for i, lessonID := range lessonIDs {
		resp, err := svc.CompleteLesson(user.ID, lessonID, lessonReq())
		require.NoError(t, err)
		assert.Equal(t, i == len(lessonIDs)-1, resp.AllLessonsDone)
	}
}

func TestPointLedger_BalanceMatchesTheActivityLog(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 4)
	enrollTestUser(t, db, user, course, time.Now())

	for _, lessonID := range lessonIDs {
		_, err := svc.CompleteLesson(user.ID, lessonID, lessonReq())
		require.NoError(t, err)
	}
	_, err := svc.CompleteCourse(user.ID, course.ID, &dto.CompleteCourseRequest{Reflection: "a reflection on the course"})
	require.NoError(t, err)

	logged, err := repositories.NewActivityRepository(db).PointTotalFromLog(user.ID)
	require.NoError(t, err)
	assert.Equal(t, userBalance(t, db, user.ID), logged, "every award leaves a log entry")
}

func TestPointLedger_DeleteCompletedLessonReversesOnlyTheFlatPoint(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 3)
	enrollment := enrollTestUser(t, db, user, course, time.Now())

	first, err := svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	require.NoError(t, err)
	balance := userBalance(t, db, user.ID)

	resp, err := svc.DeleteCompletedLesson(user.ID, first.CompletedLessonID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PointsDeducted)
	assert.Equal(t, balance-1, userBalance(t, db, user.ID), "the active-day point stays")

	var count int64
	require.NoError(t, db.Model(&model.CompletedLesson{}).Where("id = ?", first.CompletedLessonID).Count(&count).Error)
	assert.Zero(t, count)

	var activity model.DailyActivity
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&activity).Error)
	assert.Equal(t, 1, activity.LessonsCompleted, "the day's lesson counter is not rewound")
}

func TestPointLedger_DeleteCompletedLessonGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	user := createTestUser(t, db, "alice", "UTC")
	other := createTestUser(t, db, "bob", "UTC")
	course, lessonIDs := createTestCourse(t, db, user.ID, 1)
	enrollTestUser(t, db, user, course, time.Now())

	completed, err := svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	require.NoError(t, err)

	_, err = svc.DeleteCompletedLesson(other.ID, completed.CompletedLessonID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)

	_, err = svc.CompleteCourse(user.ID, course.ID, &dto.CompleteCourseRequest{Reflection: "a reflection on the course"})
	require.NoError(t, err)

	// Once the course is completed its lesson records are frozen.
	_, err = svc.DeleteCompletedLesson(user.ID, completed.CompletedLessonID)
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestPointLedger_LeaveCourseTakesBackLessonPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, creator.ID, 6)
	enrollment := enrollTestUser(t, db, user, course, time.Now())

	for _, lessonID := range lessonIDs[:4] {
		_, err := svc.CompleteLesson(user.ID, lessonID, lessonReq())
		require.NoError(t, err)
	}
	// 4 flat points plus the active-day point.
	require.Equal(t, 5, userBalance(t, db, user.ID))

	resp, err := svc.LeaveCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.PointsDeducted)
	assert.False(t, resp.CourseDeleted)
	assert.Equal(t, 1, userBalance(t, db, user.ID), "day bonuses survive the exit")

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Where("id = ?", enrollment.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.DailyActivity{}).Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Zero(t, count)
	// The enrollment's log entries go with it.
	require.NoError(t, db.Model(&model.LearningActivity{}).Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Zero(t, count)

	var refreshed model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&refreshed).Error)
	assert.Nil(t, refreshed.EnrollmentID)
}

func TestPointLedger_LeaveCompletedCourseTakesBackTheBonusToo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, creator.ID, 4)
	enrollTestUser(t, db, user, course, time.Now())

	for _, lessonID := range lessonIDs {
		_, err := svc.CompleteLesson(user.ID, lessonID, lessonReq())
		require.NoError(t, err)
	}
	completed, err := svc.CompleteCourse(user.ID, course.ID, &dto.CompleteCourseRequest{Reflection: "a reflection on the course"})
	require.NoError(t, err)
	require.True(t, completed.CompletedOnTime)
	require.Equal(t, 2, completed.BonusPoints)
	// 4 flat + 1 active day + 2 bonus.
	require.Equal(t, 7, userBalance(t, db, user.ID))

	resp, err := svc.LeaveCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.PointsDeducted, "lesson points plus the recomputed bonus")
	assert.Equal(t, 1, userBalance(t, db, user.ID))
}

func TestPointLedger_CreatorLeavingAloneDeletesTheCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	course, _ := createTestCourse(t, db, creator.ID, 3)
	enrollTestUser(t, db, creator, course, time.Now())

	resp, err := svc.LeaveCourse(creator.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, resp.CourseDeleted)

	var count int64
	require.NoError(t, db.Model(&model.Course{}).Where("id = ?", course.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", course.ID).Count(&count).Error)
	assert.Zero(t, count, "modules and lessons go with the course")
}

func TestPointLedger_CreatorLeavingKeepsTheCourseWhileOthersAreEnrolled(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	student := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, creator.ID, 3)
	enrollTestUser(t, db, creator, course, time.Now())
	enrollTestUser(t, db, student, course, time.Now())

	resp, err := svc.LeaveCourse(creator.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, resp.CourseDeleted)

	var count int64
	require.NoError(t, db.Model(&model.Course{}).Where("id = ?", course.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPointLedger_LeaveCourseRefusesToGoNegative(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, creator.ID, 3)
	enrollment := enrollTestUser(t, db, user, course, time.Now())

	_, err := svc.CompleteLesson(user.ID, lessonIDs[0], lessonReq())
	require.NoError(t, err)

	// Corrupt the balance from the outside: the deduction would overdraw.
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).Update("points", 0).Error)

	_, err = svc.LeaveCourse(user.ID, course.ID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Where("id = ?", enrollment.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the refused exit rolls back")
}

func TestPointLedger_LeaveCourseWithoutEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, creator.ID, 3)

	_, err := svc.LeaveCourse(user.ID, course.ID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}
