package services

import (
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
	"github.com/praxis-learning/praxis_api/shared"
)

// CourseService owns the catalog and the enrollment lifecycle up to the
// point where the ledger takes over: browsing, creating, joining. A user
// holds at most one active enrollment at a time.
type CourseService struct {
	context.DefaultService

	sqlSvc SqlService

	userRepo       *repositories.UserRepository
	courseRepo     *repositories.CourseRepository
	enrollmentRepo *repositories.EnrollmentRepository
}

const COURSE_SVC = "course_svc"

func (svc CourseService) Id() string {
	return COURSE_SVC
}

func (svc *CourseService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CourseService) Start() error {
	svc.sqlSvc = svc.Service(StorageServiceID()).(SqlService)

	db := svc.sqlSvc.Db()
	svc.userRepo = repositories.NewUserRepository(db)
	svc.courseRepo = repositories.NewCourseRepository(db)
	svc.enrollmentRepo = repositories.NewEnrollmentRepository(db)

	return nil
}

func (svc *CourseService) ListCourses(userID string) (*dto.CourseCollectionResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	courses, err := svc.courseRepo.ListActiveCourses(100)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.CourseCollectionResponse{
		Courses:   make([]dto.CourseResponse, 0, len(courses)),
		CanCreate: user.CanJoinCourse(),
	}

	current, err := svc.enrollmentRepo.GetActiveEnrollment(user.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if current != nil {
		resp.CurrentID = current.CourseID
	}

	for i := range courses {
		summary, err := svc.courseSummary(user, &courses[i])
		if err != nil {
			return nil, err
		}
		resp.Courses = append(resp.Courses, *summary)
	}

	return resp, nil
}

func (svc *CourseService) GetCourse(userID, courseID string) (*dto.CourseResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	course, err := svc.courseRepo.GetCourse(courseID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp, err := svc.courseSummary(user, course)
	if err != nil {
		return nil, err
	}

	completedIDs := map[string]bool{}
	enrollment, err := svc.userEnrollmentForCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment != nil {
		ids, err := svc.enrollmentRepo.CompletedLessonIDs(enrollment.ID)
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		for _, id := range ids {
			completedIDs[id] = true
		}
	}

	resp.Modules = make([]dto.ModuleDetail, 0, len(course.Modules))
	for _, m := range course.Modules {
		detail := dto.ModuleDetail{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Order:       m.ModuleOrder,
			Lessons:     make([]dto.LessonDetail, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			detail.Lessons = append(detail.Lessons, dto.LessonDetail{
				ID:          l.ID,
				Name:        l.Name,
				Description: l.Description,
				Order:       l.LessonOrder,
				IsCompleted: completedIDs[l.ID],
			})
		}
		resp.Modules = append(resp.Modules, detail)
	}

	return resp, nil
}

// CreateCourse creates a course and enrolls its creator in it. Creation
// counts as joining, so it requires a free enrollment slot.
func (svc *CourseService) CreateCourse(userID string, req *dto.CreateCourseRequest) (*dto.JoinCourseResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !user.CanJoinCourse() {
		return nil, shared.NewConflictError(nil, "Finish or leave your current course first")
	}

	course, err := svc.courseRepo.CreateCourse(userID, *req)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	return svc.enroll(user, course.ID)
}

// JoinCourse enrolls the user in an active course and stamps the bonus
// deadline derived from the course's lesson count.
func (svc *CourseService) JoinCourse(userID, courseID string) (*dto.JoinCourseResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !user.CanJoinCourse() {
		return nil, shared.NewConflictError(nil, "Finish or leave your current course first")
	}

	course, err := svc.courseRepo.GetCourse(courseID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !course.IsActive {
		return nil, shared.NewBadRequestError(nil, "Course is not open for enrollment")
	}

	existing, err := svc.userEnrollmentForCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewConflictError(nil, "You have already taken this course")
	}

	return svc.enroll(user, courseID)
}

func (svc *CourseService) enroll(user *model.User, courseID string) (*dto.JoinCourseResponse, error) {
	lessonCount, err := svc.courseRepo.LessonCount(courseID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	now := time.Now().UTC()
	deadline := points.Deadline(now, lessonCount)

	var enrollment *model.Enrollment
	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewEnrollmentRepository(tx)
		enrollment, err = repo.CreateEnrollment(user.ID, courseID, deadline)
		if err != nil {
			return err
		}

		err = tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("enrollment_id", enrollment.ID).Error
		if err != nil {
			return err
		}

		return repositories.NewActivityRepository(tx).AppendLearningActivity(&model.LearningActivity{
			UserID:       user.ID,
			EnrollmentID: enrollment.ID,
			ActivityType: model.ActivityCourseStarted,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"user_id":       user.ID,
		"course_id":     courseID,
		"deadline_days": points.DeadlineDays(lessonCount),
	}).Info("User enrolled in course")

	return &dto.JoinCourseResponse{
		EnrollmentID:  enrollment.ID,
		BonusDeadline: enrollment.BonusDeadline,
		DeadlineDays:  points.DeadlineDays(lessonCount),
	}, nil
}

// GetEnrollmentStatus reports the user's progress through a course: lesson
// counts, active days, deadline state and, once completed, points earned.
func (svc *CourseService) GetEnrollmentStatus(userID, courseID string) (*dto.EnrollmentStatusResponse, error) {
	enrollment, err := svc.userEnrollmentForCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, shared.NewNotFoundError(nil, "You are not enrolled in this course")
	}

	lessonCount, err := svc.courseRepo.LessonCount(courseID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	done, err := svc.enrollmentRepo.CountCompletedLessons(enrollment.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	activeDays, err := svc.enrollmentRepo.CountActiveDays(enrollment.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.EnrollmentStatusResponse{
		EnrollmentID:     enrollment.ID,
		CourseID:         courseID,
		StartedAt:        enrollment.CreatedAt,
		BonusDeadline:    enrollment.BonusDeadline,
		CompletedAt:      enrollment.CompletedAt,
		LessonsCompleted: done,
		TotalLessons:     lessonCount,
		AllLessonsDone:   lessonCount > 0 && done == lessonCount,
		ActiveDays:       activeDays,
		Reflection:       enrollment.CourseReflection,
	}
	if enrollment.IsCompleted() {
		onTime := enrollment.CompletedOnTime()
		earned := points.TotalCoursePoints(lessonCount, onTime)
		resp.CompletedOnTime = &onTime
		resp.PointsEarned = &earned
	}
	return resp, nil
}

func (svc *CourseService) courseSummary(user *model.User, course *model.Course) (*dto.CourseResponse, error) {
	lessonCount, err := svc.courseRepo.LessonCount(course.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	total, active, completed, err := svc.courseRepo.EnrollmentCounts(course.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	var moduleCount int64
	err = svc.sqlSvc.Db().Model(&model.Module{}).Where("course_id = ?", course.ID).Count(&moduleCount).Error
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	enrollment, err := svc.userEnrollmentForCourse(user.ID, course.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseResponse{
		ID:                     course.ID,
		Name:                   course.Name,
		Description:            course.Description,
		Link:                   course.Link,
		IsPublic:               course.IsPublic,
		IsFeatured:             course.IsFeatured,
		LessonsCount:           lessonCount,
		ModulesCount:           int(moduleCount),
		StudentsCount:          total,
		ActiveStudentsCount:    active,
		CompletedStudentsCount: completed,
		DeadlineDays:           points.DeadlineDays(lessonCount),
		IsCreator:              course.CreatorID == user.ID,
	}
	if enrollment != nil {
		resp.IsEnrolled = !enrollment.IsCompleted()
		resp.IsCompleted = enrollment.IsCompleted()
	}
	resp.CanJoin = user.CanJoinCourse() && enrollment == nil && course.IsActive
	return resp, nil
}

// userEnrollmentForCourse returns the user's enrollment in the course,
// active or completed, or nil when there is none.
func (svc *CourseService) userEnrollmentForCourse(userID, courseID string) (*model.Enrollment, error) {
	enrollment, err := svc.enrollmentRepo.GetActiveEnrollmentForCourse(userID, courseID)
	if err == gorm.ErrRecordNotFound {
		enrollment, err = svc.enrollmentRepo.GetCompletedEnrollmentForCourse(userID, courseID)
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return enrollment, nil
}
