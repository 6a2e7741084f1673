// Package points holds the point schedule and time-bonus rules. Everything
// here is pure: no clock reads, no I/O. Callers pass timestamps in and get
// integers out, which keeps the award math testable and keeps a single
// source of truth for every constant the ledger and completion flows share.
package points

import "time"

// Point values. The balance column is an integer, so all award math is
// integer math with floor semantics.
const (
	LessonCompleted = 1 // per completed lesson
	ActiveDay       = 1 // first lesson of a calendar day, across enrollments
	TimeBonus       = 1 // first lesson inside a bonus window, once per day

	// Course completion bonus multipliers, percent of the lesson count.
	OnTimeBonusPercent = 50
	LateBonusPercent   = 25
)

// CourseBonus returns the completion bonus for a course with lessonCount
// lessons: half the lesson count when completed on time, a quarter when
// late, floored.
func CourseBonus(lessonCount int, completedOnTime bool) int {
	if lessonCount <= 0 {
		return 0
	}
	if completedOnTime {
		return lessonCount * OnTimeBonusPercent / 100
	}
	return lessonCount * LateBonusPercent / 100
}

// TotalCoursePoints is the sum a finished course is worth: one point per
// lesson plus the completion bonus.
func TotalCoursePoints(lessonCount int, completedOnTime bool) int {
	return lessonCount*LessonCompleted + CourseBonus(lessonCount, completedOnTime)
}

// DeadlineDays derives the bonus deadline for a course from its lesson
// count: the lesson count plus 40%, in whole days (integer division, so a
// 4 lesson course gets 4 days, a 30 lesson course 42).
func DeadlineDays(lessonCount int) int {
	return lessonCount + lessonCount/5*2
}

// Deadline returns the bonus deadline instant for an enrollment created at
// startedAt into a course with lessonCount lessons.
func Deadline(startedAt time.Time, lessonCount int) time.Time {
	return startedAt.AddDate(0, 0, DeadlineDays(lessonCount))
}

// CompletedOnTime reports whether completedAt falls at or before the
// deadline. The boundary is inclusive: completing at the exact deadline
// instant is on time, one second later is late.
func CompletedOnTime(startedAt, completedAt time.Time, lessonCount int) bool {
	return !completedAt.After(Deadline(startedAt, lessonCount))
}
