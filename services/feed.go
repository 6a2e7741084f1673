package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
)

// FeedService reads the append-only activity log and the daily rows to
// produce the activity feed and the per-day calendar.
type FeedService struct {
	context.DefaultService

	sqlSvc SqlService

	userRepo     *repositories.UserRepository
	activityRepo *repositories.ActivityRepository
}

const FEED_SVC = "feed_svc"

const feedLimit = 100

func (svc FeedService) Id() string {
	return FEED_SVC
}

func (svc *FeedService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *FeedService) Start() error {
	svc.sqlSvc = svc.Service(StorageServiceID()).(SqlService)

	db := svc.sqlSvc.Db()
	svc.userRepo = repositories.NewUserRepository(db)
	svc.activityRepo = repositories.NewActivityRepository(db)

	return nil
}

// GetUserFeed returns the user's own activity log entries for a date range,
// newest first.
func (svc *FeedService) GetUserFeed(userID string, since, until time.Time) (*dto.FeedResponse, error) {
	entries, err := svc.activityRepo.FeedForUser(userID, since, until, feedLimit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return svc.buildFeed(entries)
}

// GetRecentFeed returns the latest activity across all users.
func (svc *FeedService) GetRecentFeed() (*dto.FeedResponse, error) {
	entries, err := svc.activityRepo.RecentFeed(feedLimit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return svc.buildFeed(entries)
}

func (svc *FeedService) buildFeed(entries []model.LearningActivity) (*dto.FeedResponse, error) {
	resp := &dto.FeedResponse{Entries: make([]dto.FeedEntry, 0, len(entries))}
	db := svc.sqlSvc.Db()

	usernames := map[string]string{}
	courseNames := map[string]string{}
	lessonNames := map[string]string{}

	for _, entry := range entries {
		fe := dto.FeedEntry{
			UserID:       entry.UserID,
			EnrollmentID: entry.EnrollmentID,
			LessonID:     entry.LessonID,
			ActivityType: entry.ActivityType,
			PointsEarned: entry.PointsEarned,
			OccurredAt:   entry.CreatedAt,
		}

		if name, ok := usernames[entry.UserID]; ok {
			fe.Username = name
		} else if user, err := svc.userRepo.GetUser(entry.UserID); err == nil {
			usernames[entry.UserID] = user.Username
			fe.Username = user.Username
		}

		if name, ok := courseNames[entry.EnrollmentID]; ok {
			fe.CourseName = name
		} else {
			var course model.Course
			err := db.Select("courses.*").
				Joins("JOIN enrollments ON enrollments.course_id = courses.id").
				Where("enrollments.id = ?", entry.EnrollmentID).
				First(&course).Error
			if err == nil {
				courseNames[entry.EnrollmentID] = course.Name
				fe.CourseName = course.Name
			} else if err != gorm.ErrRecordNotFound {
				return nil, svc.sqlSvc.HandleError(err)
			}
		}

		if entry.LessonID != nil {
			if name, ok := lessonNames[*entry.LessonID]; ok {
				fe.LessonName = name
			} else {
				var lesson model.Lesson
				if err := db.Where("id = ?", *entry.LessonID).First(&lesson).Error; err == nil {
					lessonNames[*entry.LessonID] = lesson.Name
					fe.LessonName = lesson.Name
				}
			}
		}

		resp.Entries = append(resp.Entries, fe)
	}

	return resp, nil
}

// GetCalendar aggregates the user's daily activity rows into one entry per
// calendar day, newest first, with the per-course lesson breakdown.
func (svc *FeedService) GetCalendar(userID string) (*dto.CalendarResponse, error) {
	rows, err := svc.activityRepo.RowsForUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	db := svc.sqlSvc.Db()
	courseByEnrollment := map[string]*model.Course{}

	resp := &dto.CalendarResponse{Days: []dto.CalendarDayResponse{}}
	var day *dto.CalendarDayResponse

	for _, row := range rows {
		if day == nil || day.Date != row.ActivityDate {
			resp.Days = append(resp.Days, dto.CalendarDayResponse{
				Date:    row.ActivityDate,
				Courses: []dto.CalendarCourseEntry{},
			})
			day = &resp.Days[len(resp.Days)-1]
		}

		day.LessonsCompleted += row.LessonsCompleted
		if row.TimeBonusEarned {
			day.TimeBonusEarned = true
			day.TimeBonusType = row.TimeBonusType
		}

		course, ok := courseByEnrollment[row.EnrollmentID]
		if !ok {
			var c model.Course
			err := db.Select("courses.*").
				Joins("JOIN enrollments ON enrollments.course_id = courses.id").
				Where("enrollments.id = ?", row.EnrollmentID).
				First(&c).Error
			if err == nil {
				course = &c
			} else if err != gorm.ErrRecordNotFound {
				return nil, svc.sqlSvc.HandleError(err)
			}
			courseByEnrollment[row.EnrollmentID] = course
		}
		entry := dto.CalendarCourseEntry{
			LessonsCompleted: row.LessonsCompleted,
		}
		if course != nil {
			entry.CourseID = course.ID
			entry.CourseName = course.Name
		}
		day.Courses = append(day.Courses, entry)
	}

	// The day's points: one per lesson, one for the active day, one more
	// when the time bonus was hit.
	for i := range resp.Days {
		d := &resp.Days[i]
		if d.LessonsCompleted == 0 {
			continue
		}
		d.PointsEarned = d.LessonsCompleted*points.LessonCompleted + points.ActiveDay
		if d.TimeBonusEarned {
			d.PointsEarned += points.TimeBonus
		}
	}

	return resp, nil
}
