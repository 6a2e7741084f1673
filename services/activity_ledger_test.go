package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
)

func TestActivityLedger_FirstLessonOfDayAwardsActiveDay(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, user.ID, 3)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	ledger := NewActivityLedger(db)

	midday := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result, err := ledger.Record(user.ID, enrollment.ID, midday, user.Timezone)
	require.NoError(t, err)

	assert.True(t, result.ActiveDayAwarded)
	assert.False(t, result.TimeBonusAwarded)
	assert.Equal(t, points.ActiveDay, result.PointsAwarded)
	assert.Equal(t, points.ActiveDay, userBalance(t, db, user.ID))

	// Second lesson of the same day earns no further day bonus.
	result, err = ledger.Record(user.ID, enrollment.ID, midday.Add(time.Hour), user.Timezone)
	require.NoError(t, err)

	assert.False(t, result.ActiveDayAwarded)
	assert.Zero(t, result.PointsAwarded)
	assert.Equal(t, points.ActiveDay, userBalance(t, db, user.ID))

	var activity model.DailyActivity
	require.NoError(t, db.Where("user_id = ? AND enrollment_id = ?", user.ID, enrollment.ID).First(&activity).Error)
	assert.Equal(t, 2, activity.LessonsCompleted)
	assert.Equal(t, "2025-06-01", activity.ActivityDate)
}

func TestActivityLedger_ActiveDayIsOncePerDayAcrossEnrollments(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	courseA, _ := createTestCourse(t, db, user.ID, 3)
	courseB, _ := createTestCourse(t, db, user.ID, 3)
	enrollmentA := enrollTestUser(t, db, user, courseA, time.Now())
	enrollmentB := enrollTestUser(t, db, user, courseB, time.Now())
	ledger := NewActivityLedger(db)

	midday := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result, err := ledger.Record(user.ID, enrollmentA.ID, midday, user.Timezone)
	require.NoError(t, err)
	assert.True(t, result.ActiveDayAwarded)

	result, err = ledger.Record(user.ID, enrollmentB.ID, midday.Add(time.Minute), user.Timezone)
	require.NoError(t, err)
	assert.False(t, result.ActiveDayAwarded, "second enrollment's lesson is still the same calendar day")

	var rows []model.DailyActivity
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	assert.Len(t, rows, 2, "one row per enrollment")
	assert.Equal(t, points.ActiveDay, userBalance(t, db, user.ID))
}

func TestActivityLedger_TimeBonusFlagsEveryRowOfTheDay(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	courseA, _ := createTestCourse(t, db, user.ID, 3)
	courseB, _ := createTestCourse(t, db, user.ID, 3)
	enrollmentA := enrollTestUser(t, db, user, courseA, time.Now())
	enrollmentB := enrollTestUser(t, db, user, courseB, time.Now())
	ledger := NewActivityLedger(db)

	midday := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)

	_, err := ledger.Record(user.ID, enrollmentA.ID, midday, user.Timezone)
	require.NoError(t, err)

	result, err := ledger.Record(user.ID, enrollmentB.ID, evening, user.Timezone)
	require.NoError(t, err)
	assert.True(t, result.TimeBonusAwarded)
	assert.Equal(t, points.WindowEvening, result.Window)

	var rows []model.DailyActivity
	require.NoError(t, db.Where("user_id = ? AND activity_date = ?", user.ID, "2025-06-01").Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.True(t, row.TimeBonusEarned, "every row of the day carries the flag")
		assert.Equal(t, string(points.WindowEvening), row.TimeBonusType)
	}
}

func TestActivityLedger_TimeBonusIsOncePerDay(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, user.ID, 5)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	ledger := NewActivityLedger(db)

	morning := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)

	result, err := ledger.Record(user.ID, enrollment.ID, morning, user.Timezone)
	require.NoError(t, err)
	assert.True(t, result.ActiveDayAwarded)
	assert.True(t, result.TimeBonusAwarded)
	assert.Equal(t, points.ActiveDay+points.TimeBonus, result.PointsAwarded)

	// The evening lesson sits in a window too, but the day's bonus is spent.
	result, err = ledger.Record(user.ID, enrollment.ID, evening, user.Timezone)
	require.NoError(t, err)
	assert.False(t, result.TimeBonusAwarded)
	assert.Equal(t, points.WindowEvening, result.Window)
	assert.Zero(t, result.PointsAwarded)

	assert.Equal(t, points.ActiveDay+points.TimeBonus, userBalance(t, db, user.ID))
}

func TestActivityLedger_NewDayResetsTheBonuses(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, user.ID, 5)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	ledger := NewActivityLedger(db)

	day1 := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	result, err := ledger.Record(user.ID, enrollment.ID, day1, user.Timezone)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PointsAwarded)

	result, err = ledger.Record(user.ID, enrollment.ID, day2, user.Timezone)
	require.NoError(t, err)
	assert.True(t, result.ActiveDayAwarded)
	assert.True(t, result.TimeBonusAwarded)

	var rows []model.DailyActivity
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	assert.Len(t, rows, 2, "one row per day")
	assert.Equal(t, 4, userBalance(t, db, user.ID))
}

func TestActivityLedger_DayBoundaryFollowsTheUserTimezone(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "Asia/Ho_Chi_Minh")
	course, _ := createTestCourse(t, db, user.ID, 5)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	ledger := NewActivityLedger(db)

	// 16:30 UTC is 23:30 June 1 in Ho Chi Minh City; an hour later it is
	// 00:30 June 2. Same UTC day, two local days.
	beforeMidnight := time.Date(2025, 6, 1, 16, 30, 0, 0, time.UTC)
	afterMidnight := beforeMidnight.Add(time.Hour)

	result, err := ledger.Record(user.ID, enrollment.ID, beforeMidnight, user.Timezone)
	require.NoError(t, err)
	assert.True(t, result.ActiveDayAwarded)
	assert.Equal(t, "2025-06-01", result.Activity.ActivityDate)

	result, err = ledger.Record(user.ID, enrollment.ID, afterMidnight, user.Timezone)
	require.NoError(t, err)
	assert.True(t, result.ActiveDayAwarded, "local midnight starts a new active day")
	assert.Equal(t, "2025-06-02", result.Activity.ActivityDate)
}

func TestActivityLedger_WritesAuditEntriesForBonuses(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "UTC")
	course, _ := createTestCourse(t, db, user.ID, 5)
	enrollment := enrollTestUser(t, db, user, course, time.Now())
	ledger := NewActivityLedger(db)

	morning := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	_, err := ledger.Record(user.ID, enrollment.ID, morning, user.Timezone)
	require.NoError(t, err)

	var entries []model.LearningActivity
	require.NoError(t, db.Where("user_id = ? AND activity_type = ?", user.ID, model.ActivityLessonsCompleted).
		Find(&entries).Error)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].PointsEarned)
	assert.Equal(t, points.ActiveDay+points.TimeBonus, *entries[0].PointsEarned)
}
