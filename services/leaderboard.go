package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/praxis-learning/praxis_api/dto"
	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
	"github.com/praxis-learning/praxis_api/services/repositories"
	"github.com/praxis-learning/praxis_api/shared"
)

// LeaderboardService ranks users four ways: today and yesterday by lessons
// completed that day, this-month and overall by point balance. The daily
// boards read the activity rows; the balance boards read the users table.
// Results are cached briefly in redis when it is configured.
type LeaderboardService struct {
	appContext.DefaultService

	sqlSvc   SqlService
	redisSvc *RedisService

	userRepo     *repositories.UserRepository
	activityRepo *repositories.ActivityRepository
}

const LEADERBOARD_SVC = "leaderboard_svc"

const (
	leaderboardLimit    = 50
	leaderboardCacheTTL = time.Minute
)

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	svc.sqlSvc = svc.Service(StorageServiceID()).(SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)

	db := svc.sqlSvc.Db()
	svc.userRepo = repositories.NewUserRepository(db)
	svc.activityRepo = repositories.NewActivityRepository(db)

	return nil
}

// GetLeaderboard returns the ranked entries for one period. userID may be
// empty; when set, the caller's own rank is included even if they are not
// in the visible slice.
func (svc *LeaderboardService) GetLeaderboard(period, userID string) (*dto.LeaderboardResponse, error) {
	timezone := "UTC"
	if userID != "" {
		if user, err := svc.userRepo.GetUser(userID); err == nil {
			timezone = user.Timezone
		}
	}

	var resp *dto.LeaderboardResponse
	var err error

	switch period {
	case shared.LeaderboardToday:
		resp, err = svc.dayBoard(period, points.LocalDate(time.Now().UTC(), timezone), userID)
	case shared.LeaderboardYesterday:
		resp, err = svc.dayBoard(period, points.LocalDate(time.Now().UTC().AddDate(0, 0, -1), timezone), userID)
	case shared.LeaderboardMonth, shared.LeaderboardOverall:
		resp, err = svc.pointsBoard(period, userID)
	default:
		return nil, shared.NewBadRequestError(nil, "Unknown leaderboard period")
	}
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return resp, nil
}

func (svc *LeaderboardService) dayBoard(period, activityDate, userID string) (*dto.LeaderboardResponse, error) {
	cacheKey := fmt.Sprintf("leaderboard:%s:%s", period, activityDate)
	if cached := svc.fromCache(cacheKey); cached != nil {
		cached.CurrentRank = svc.dayRank(activityDate, userID)
		return cached, nil
	}

	rows, err := svc.activityRepo.DayLeaderboard(activityDate, leaderboardLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{Period: period, Entries: make([]dto.LeaderboardEntry, 0, len(rows))}
	for i, row := range rows {
		user, err := svc.userRepo.GetUser(row.UserID)
		if err != nil {
			continue
		}
		entry := dto.LeaderboardEntry{
			Rank:             i + 1,
			User:             leaderboardUser(user),
			LessonsCompleted: row.LessonsCompleted,
			HasTimeBonus:     row.TimeBonusEarned,
			TimeBonusType:    row.TimeBonusType,
		}
		resp.Entries = append(resp.Entries, entry)
	}

	svc.toCache(cacheKey, resp)
	resp.CurrentRank = svc.dayRank(activityDate, userID)
	return resp, nil
}

func (svc *LeaderboardService) pointsBoard(period, userID string) (*dto.LeaderboardResponse, error) {
	cacheKey := "leaderboard:" + period
	if cached := svc.fromCache(cacheKey); cached != nil {
		cached.CurrentRank = svc.pointsRank(userID)
		return cached, nil
	}

	users, err := svc.userRepo.TopByPoints(leaderboardLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{Period: period, Entries: make([]dto.LeaderboardEntry, 0, len(users))}
	for i := range users {
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:   i + 1,
			User:   leaderboardUser(&users[i]),
			Points: users[i].Points,
		})
	}

	svc.toCache(cacheKey, resp)
	resp.CurrentRank = svc.pointsRank(userID)
	return resp, nil
}

func (svc *LeaderboardService) dayRank(activityDate, userID string) int {
	if userID == "" {
		return 0
	}
	rows, err := svc.activityRepo.DayLeaderboard(activityDate, 0)
	if err != nil {
		return 0
	}
	for i, row := range rows {
		if row.UserID == userID {
			return i + 1
		}
	}
	return 0
}

func (svc *LeaderboardService) pointsRank(userID string) int {
	if userID == "" {
		return 0
	}
	rank, err := svc.userRepo.PointsRank(userID)
	if err != nil {
		return 0
	}
	return rank
}

func (svc *LeaderboardService) fromCache(key string) *dto.LeaderboardResponse {
	if !svc.redisSvc.Enabled() {
		return nil
	}
	var resp dto.LeaderboardResponse
	if err := svc.redisSvc.GetJSON(context.Background(), key, &resp); err != nil {
		log.WithError(err).WithField("key", key).Warn("Leaderboard cache read failed")
		return nil
	}
	if resp.Period == "" {
		return nil
	}
	return &resp
}

func (svc *LeaderboardService) toCache(key string, resp *dto.LeaderboardResponse) {
	if !svc.redisSvc.Enabled() {
		return
	}
	if err := svc.redisSvc.Set(context.Background(), key, resp, leaderboardCacheTTL); err != nil {
		log.WithError(err).WithField("key", key).Warn("Leaderboard cache write failed")
	}
}

func leaderboardUser(user *model.User) dto.LeaderboardUser {
	return dto.LeaderboardUser{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Avatar:      user.Avatar,
	}
}
