package handlers

import (
	"mime/multipart"
	"time"

	"github.com/praxis-learning/praxis_api/dto"
)

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
}

type UserServiceInterface interface {
	GetUserProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateUserProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error)
}

type CourseServiceInterface interface {
	ListCourses(userID string) (*dto.CourseCollectionResponse, error)
	GetCourse(userID, courseID string) (*dto.CourseResponse, error)
	CreateCourse(userID string, req *dto.CreateCourseRequest) (*dto.JoinCourseResponse, error)
	JoinCourse(userID, courseID string) (*dto.JoinCourseResponse, error)
	GetEnrollmentStatus(userID, courseID string) (*dto.EnrollmentStatusResponse, error)
}

type PointLedgerServiceInterface interface {
	CompleteLesson(userID, lessonID string, req *dto.CompleteLessonRequest) (*dto.CompleteLessonResponse, error)
	DeleteCompletedLesson(userID, completedLessonID string) (*dto.DeleteCompletedLessonResponse, error)
	CompleteCourse(userID, courseID string, req *dto.CompleteCourseRequest) (*dto.CompleteCourseResponse, error)
	LeaveCourse(userID, courseID string) (*dto.LeaveCourseResponse, error)
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(period, userID string) (*dto.LeaderboardResponse, error)
}

type FeedServiceInterface interface {
	GetUserFeed(userID string, since, until time.Time) (*dto.FeedResponse, error)
	GetRecentFeed() (*dto.FeedResponse, error)
	GetCalendar(userID string) (*dto.CalendarResponse, error)
}
