package services

import (
	"mime/multipart"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
	"github.com/praxis-learning/praxis_api/shared"
)

// UserService exposes profiles and the point-threshold unlocks tied to
// them: avatar upload, custom titles, leaderboard visibility.
type UserService struct {
	context.DefaultService

	sqlSvc   SqlService
	mediaSvc *MediaService

	userRepo       *repositories.UserRepository
	enrollmentRepo *repositories.EnrollmentRepository
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(StorageServiceID()).(SqlService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)

	db := svc.sqlSvc.Db()
	svc.userRepo = repositories.NewUserRepository(db)
	svc.enrollmentRepo = repositories.NewEnrollmentRepository(db)

	return nil
}

func (svc *UserService) GetUserProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return svc.buildProfile(user)
}

func (svc *UserService) UpdateUserProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.WebsiteURL != nil {
		user.WebsiteURL = *req.WebsiteURL
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}

	if req.Title != nil && *req.Title != user.Title {
		if !points.Unlocked(user.Points, points.CustomTitleUnlock) {
			return nil, shared.NewForbiddenError(nil, "Custom titles unlock at 100 points")
		}
		user.Title = *req.Title
	}

	// The timezone shifts every window and date computation, so it can
	// only change once every 30 days.
	if req.Timezone != nil && *req.Timezone != user.Timezone {
		now := time.Now()
		if !user.CanUpdateTimezone(now) {
			return nil, shared.NewForbiddenError(nil, "Timezone can only be changed once every 30 days")
		}
		user.Timezone = *req.Timezone
		user.TimezoneUpdatedAt = &now
	}

	if err := svc.userRepo.UpdateUser(user); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithField("user_id", userID).Info("Profile updated")
	return svc.buildProfile(user)
}

func (svc *UserService) UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !points.Unlocked(user.Points, points.ProfilePictureUnlock) {
		return nil, shared.NewForbiddenError(nil, "Avatar upload unlocks at 100 points")
	}

	resp, err := svc.mediaSvc.UploadAvatar(userID, file)
	if err != nil {
		return nil, err
	}

	user.Avatar = resp.AvatarURL
	if err := svc.userRepo.UpdateUser(user); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	return resp, nil
}

func (svc *UserService) buildProfile(user *model.User) (*dto.UserProfileResponse, error) {
	resp := &dto.UserProfileResponse{
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		DisplayName:  user.DisplayName(),
		Avatar:       user.Avatar,
		Title:        user.Title,
		Bio:          user.Bio,
		WebsiteURL:   user.WebsiteURL,
		IsPublic:     user.IsPublic,
		Points:       user.Points,
		Timezone:     user.Timezone,
		JoinedAt:     user.CreatedAt,
		EnrollmentID: user.EnrollmentID,

		CanUploadAvatar:   points.Unlocked(user.Points, points.ProfilePictureUnlock),
		CanSetCustomTitle: points.Unlocked(user.Points, points.CustomTitleUnlock),
		OnLeaderboard:     points.Unlocked(user.Points, points.LeaderboardVisibility),
	}

	completed, err := svc.enrollmentRepo.CompletedEnrollments(user.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	for i := range completed {
		if resp.LastCompleted == nil || completed[i].CompletedAt.After(*resp.LastCompleted) {
			resp.LastCompleted = completed[i].CompletedAt
		}
	}

	return resp, nil
}
