package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
	"github.com/praxis-learning/praxis_api/shared"
)

// newTestCourseService wires a CourseService straight onto db.
func newTestCourseService(t *testing.T, db *gorm.DB) *CourseService {
	t.Helper()

	return &CourseService{
		sqlSvc:         &testSqlService{db: db},
		userRepo:       repositories.NewUserRepository(db),
		courseRepo:     repositories.NewCourseRepository(db),
		enrollmentRepo: repositories.NewEnrollmentRepository(db),
	}
}

func TestCourseService_JoinCourseEnrollsAndLogsTheStart(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCourseService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, creator.ID, 3)

	resp, err := svc.JoinCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, points.DeadlineDays(3), resp.DeadlineDays)

	enrollment, err := repositories.NewEnrollmentRepository(db).GetActiveEnrollmentForCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.EnrollmentID, enrollment.ID)
	assert.WithinDuration(t, resp.BonusDeadline, enrollment.BonusDeadline, time.Second)

	var refreshed model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&refreshed).Error)
	require.NotNil(t, refreshed.EnrollmentID)
	assert.Equal(t, enrollment.ID, *refreshed.EnrollmentID)

	var entries []model.LearningActivity
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActivityCourseStarted, entries[0].ActivityType)
	assert.Nil(t, entries[0].PointsEarned)

	// One course at a time.
	_, err = svc.JoinCourse(user.ID, course.ID)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
}

func TestCourseService_ListCoursesReportsTheCurrentCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCourseService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	joined, _ := createTestCourse(t, db, creator.ID, 2)
	other, _ := createTestCourse(t, db, creator.ID, 2)

	_, err := svc.JoinCourse(user.ID, joined.ID)
	require.NoError(t, err)

	resp, err := svc.ListCourses(user.ID)
	require.NoError(t, err)
	assert.Equal(t, joined.ID, resp.CurrentID)
	assert.False(t, resp.CanCreate, "an active enrollment blocks creating")

	summaries := map[string]bool{}
	for _, c := range resp.Courses {
		summaries[c.ID] = c.IsEnrolled
		assert.False(t, c.CanJoin)
	}
	assert.True(t, summaries[joined.ID])
	assert.False(t, summaries[other.ID])
}

func TestCourseService_CourseDetailMarksACompletedRun(t *testing.T) {
	db := newTestDB(t)
	courseSvc := newTestCourseService(t, db)
	ledgerSvc := newTestLedgerService(t, db)
	creator := createTestUser(t, db, "creator", "UTC")
	user := createTestUser(t, db, "alice", "UTC")
	course, lessonIDs := createTestCourse(t, db, creator.ID, 3)

	_, err := courseSvc.JoinCourse(user.ID, course.ID)
	require.NoError(t, err)
	for _, lessonID := range lessonIDs {
		_, err := ledgerSvc.CompleteLesson(user.ID, lessonID, lessonReq())
		require.NoError(t, err)
	}
	_, err = ledgerSvc.CompleteCourse(user.ID, course.ID, &dto.CompleteCourseRequest{Reflection: "a reflection on the course"})
	require.NoError(t, err)

	resp, err := courseSvc.GetCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsCompleted)
	assert.False(t, resp.IsEnrolled)
	assert.False(t, resp.CanJoin, "a completed run is not repeatable")
	for _, m := range resp.Modules {
		for _, l := range m.Lessons {
			assert.True(t, l.IsCompleted)
		}
	}
}
