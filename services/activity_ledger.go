package services

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
)

// ActivityLedger owns the per-day activity rows and the daily bonus awards:
// one active-day point for the first lesson of a calendar day and one
// time-bonus point for the first lesson inside a bonus window, each at most
// once per user per day across all enrollments.
type ActivityLedger struct {
	db      *gorm.DB
	windows points.WindowConfig
}

func NewActivityLedger(db *gorm.DB) *ActivityLedger {
	return &ActivityLedger{db: db, windows: points.DefaultWindows}
}

func NewActivityLedgerWithWindows(db *gorm.DB, windows points.WindowConfig) *ActivityLedger {
	return &ActivityLedger{db: db, windows: windows}
}

// LedgerResult reports what one recorded lesson changed.
type LedgerResult struct {
	Activity         *model.DailyActivity
	PointsAwarded    int
	ActiveDayAwarded bool
	TimeBonusAwarded bool
	Window           points.Window
}

// Record registers one completed lesson in its own transaction.
func (l *ActivityLedger) Record(userID, enrollmentID string, now time.Time, timezone string) (*LedgerResult, error) {
	var result *LedgerResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = l.RecordTx(tx, userID, enrollmentID, now, timezone)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordTx registers one completed lesson inside the caller's transaction.
//
// The day-scope checks run before this call's increment, so two lessons in
// the same call sequence award the day bonuses only once. The user row is
// locked first: two concurrent completions by the same user serialize here,
// which keeps both day bonuses single-award under concurrency.
func (l *ActivityLedger) RecordTx(tx *gorm.DB, userID, enrollmentID string, now time.Time, timezone string) (*LedgerResult, error) {
	var user model.User
	if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	activityDate := points.LocalDate(now, timezone)

	todays, err := repositories.NewActivityRepository(tx).RowsForUserDate(userID, activityDate)
	if err != nil {
		return nil, err
	}

	hasActivityToday := false
	hasTimeBonusToday := false
	var activity *model.DailyActivity
	for i := range todays {
		if todays[i].LessonsCompleted > 0 {
			hasActivityToday = true
		}
		if todays[i].TimeBonusEarned {
			hasTimeBonusToday = true
		}
		if todays[i].EnrollmentID == enrollmentID {
			activity = &todays[i]
		}
	}

	if activity == nil {
		activity = &model.DailyActivity{
			UserID:       userID,
			EnrollmentID: enrollmentID,
			ActivityDate: activityDate,
		}
		if err := tx.Create(activity).Error; err != nil {
			return nil, err
		}
	}

	activity.LessonsCompleted++
	if err := tx.Model(&model.DailyActivity{}).
		Where("id = ?", activity.ID).
		UpdateColumn("lessons_completed", gorm.Expr("lessons_completed + 1")).Error; err != nil {
		return nil, err
	}

	result := &LedgerResult{Activity: activity}

	if !hasActivityToday {
		result.ActiveDayAwarded = true
		result.PointsAwarded += points.ActiveDay
	}

	window := l.windows.For(now, timezone)
	result.Window = window
	if window != points.WindowNone && !hasTimeBonusToday {
		// Flag every one of today's rows, not just this enrollment's, so
		// the per-day views agree no matter which row they read.
		err := tx.Model(&model.DailyActivity{}).
			Where("user_id = ? AND activity_date = ?", userID, activityDate).
			Updates(map[string]interface{}{
				"time_bonus_earned": true,
				"time_bonus_type":   string(window),
			}).Error
		if err != nil {
			return nil, err
		}
		activity.TimeBonusEarned = true
		activity.TimeBonusType = string(window)

		result.TimeBonusAwarded = true
		result.PointsAwarded += points.TimeBonus
	}

	if result.PointsAwarded > 0 {
		if err := addPointsTx(tx, userID, result.PointsAwarded); err != nil {
			return nil, err
		}
		if result.ActiveDayAwarded {
			recordPointsAwarded("active_day", points.ActiveDay)
		}
		if result.TimeBonusAwarded {
			recordPointsAwarded("time_bonus", points.TimeBonus)
		}

		earned := result.PointsAwarded
		entry := &model.LearningActivity{
			UserID:       userID,
			EnrollmentID: enrollmentID,
			ActivityType: model.ActivityLessonsCompleted,
			PointsEarned: &earned,
			CreatedAt:    now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"user_id":       userID,
			"enrollment_id": enrollmentID,
			"activity_date": activityDate,
			"points":        result.PointsAwarded,
			"window":        string(window),
		}).Info("Daily activity bonus awarded")
	}

	return result, nil
}

// lockForUpdate takes a row lock where the dialect supports it. SQLite
// serializes writers on its own and rejects FOR UPDATE outright.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// addPointsTx atomically adjusts a user's point balance inside tx. Negative
// deltas are guarded by the callers, which verify the balance first while
// holding the user row lock.
func addPointsTx(tx *gorm.DB, userID string, delta int) error {
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
}
