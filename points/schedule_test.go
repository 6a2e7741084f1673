package points_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praxis-learning/praxis_api/points"
)

func TestCourseBonus(t *testing.T) {
	tests := []struct {
		name        string
		lessonCount int
		onTime      bool
		want        int
	}{
		{"on time is half the lesson count", 30, true, 15},
		{"late is a quarter of the lesson count", 30, false, 7},
		{"odd count floors on time", 5, true, 2},
		{"odd count floors late", 5, false, 1},
		{"tiny course late rounds to zero", 3, false, 0},
		{"single lesson on time rounds to zero", 1, true, 0},
		{"zero lessons award nothing", 0, true, 0},
		{"negative count awards nothing", -4, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, points.CourseBonus(tt.lessonCount, tt.onTime))
		})
	}
}

func TestTotalCoursePoints(t *testing.T) {
	// 10 lessons: 10 flat + 5 bonus on time, 10 + 2 late.
	assert.Equal(t, 15, points.TotalCoursePoints(10, true))
	assert.Equal(t, 12, points.TotalCoursePoints(10, false))
}

func TestDeadlineDays(t *testing.T) {
	tests := []struct {
		lessonCount int
		want        int
	}{
		{1, 1},
		{4, 4},   // below 5 lessons the 40% term vanishes
		{5, 7},
		{10, 14},
		{13, 17},
		{30, 42},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, points.DeadlineDays(tt.lessonCount), "lessonCount=%d", tt.lessonCount)
	}
}

func TestDeadlineDaysMonotonic(t *testing.T) {
	prev := 0
	for n := 1; n <= 200; n++ {
		days := points.DeadlineDays(n)
		assert.GreaterOrEqual(t, days, prev, "deadline shrank at lessonCount=%d", n)
		prev = days
	}
}

func TestCompletedOnTimeBoundary(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := points.Deadline(start, 10) // 14 days out

	assert.True(t, points.CompletedOnTime(start, deadline, 10), "the exact deadline instant is on time")
	assert.True(t, points.CompletedOnTime(start, deadline.Add(-time.Second), 10))
	assert.False(t, points.CompletedOnTime(start, deadline.Add(time.Second), 10), "one second past the deadline is late")
}

func TestUnlocked(t *testing.T) {
	assert.False(t, points.Unlocked(99, points.ProfilePictureUnlock))
	assert.True(t, points.Unlocked(100, points.CustomTitleUnlock))
	assert.True(t, points.Unlocked(10, points.LeaderboardVisibility))
	assert.False(t, points.Unlocked(9, points.LeaderboardVisibility))
}
