package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
)

// ActivityRepository serves read paths over the daily-activity ledger and
// the learning-activity log: calendars, feeds and the per-day leaderboards.
// The write path lives in the ledger service, inside its own transaction.
type ActivityRepository struct {
	BaseRepository
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *ActivityRepository) RowsForUserDate(userID, activityDate string) ([]model.DailyActivity, error) {
	var rows []model.DailyActivity
	err := r.db.
		Where("user_id = ? AND activity_date = ?", userID, activityDate).
		Find(&rows).Error
	return rows, err
}

func (r *ActivityRepository) RowsForUser(userID string) ([]model.DailyActivity, error) {
	var rows []model.DailyActivity
	err := r.db.
		Where("user_id = ?", userID).
		Order("activity_date DESC").
		Find(&rows).Error
	return rows, err
}

// DayLeaderboard ranks all users active on the given date by lessons
// completed, then by having earned the time bonus. Rows are aggregated per
// user across enrollments.
type DayLeaderboardRow struct {
	UserID           string
	LessonsCompleted int
	TimeBonusEarned  bool
	TimeBonusType    string
}

// limit <= 0 returns every ranked user.
func (r *ActivityRepository) DayLeaderboard(activityDate string, limit int) ([]DayLeaderboardRow, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []DayLeaderboardRow
	err := r.db.Model(&model.DailyActivity{}).
		Select("user_id, SUM(lessons_completed) AS lessons_completed, MAX(CASE WHEN time_bonus_earned THEN 1 ELSE 0 END) AS time_bonus_earned, MAX(time_bonus_type) AS time_bonus_type").
		Where("activity_date = ? AND lessons_completed > 0", activityDate).
		Group("user_id").
		Order("lessons_completed DESC, time_bonus_earned DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *ActivityRepository) AppendLearningActivity(entry *model.LearningActivity) error {
	return r.db.Create(entry).Error
}

func (r *ActivityRepository) FeedForUser(userID string, since, until time.Time, limit int) ([]model.LearningActivity, error) {
	q := r.db.Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if !until.IsZero() {
		q = q.Where("created_at <= ?", until)
	}

	var entries []model.LearningActivity
	err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *ActivityRepository) RecentFeed(limit int) ([]model.LearningActivity, error) {
	var entries []model.LearningActivity
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// PointTotalFromLog sums every points_earned entry logged for a user. Used
// to audit the balance against the log. The equality only holds while the
// logged enrollments still exist; leaving a course removes its entries
// together with the deducted points.
func (r *ActivityRepository) PointTotalFromLog(userID string) (int, error) {
	var total *int
	err := r.db.Model(&model.LearningActivity{}).
		Select("SUM(points_earned)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
