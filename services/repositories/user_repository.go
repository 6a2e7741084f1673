package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
	"github.com/praxis-learning/praxis_api/points"
)

// UserRepository handles user-related database operations
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *UserRepository) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmailOrUsername(emailOrUsername string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CreateUser(username, email, hashedPassword, timezone string) (*model.User, error) {
	if timezone == "" {
		timezone = "UTC"
	}
	user := &model.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Timezone:  timezone,
		IsPublic:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

// SetActiveEnrollment updates only the active-enrollment pointer. Pass nil
// to clear it.
func (r *UserRepository) SetActiveEnrollment(userID string, enrollmentID *string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("enrollment_id", enrollmentID).Error
}

// TopByPoints returns users ranked by their point balance, hiding anyone
// below the leaderboard visibility threshold.
func (r *UserRepository) TopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("points >= ? AND is_public = ?", points.LeaderboardVisibility, true).
		Order("points DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// PointsRank returns the 1-based rank of the user on the overall
// leaderboard, or 0 when the user is below the visibility threshold.
func (r *UserRepository) PointsRank(userID string) (int, error) {
	user, err := r.GetUser(userID)
	if err != nil {
		return 0, err
	}
	if user.Points < points.LeaderboardVisibility {
		return 0, nil
	}

	var ahead int64
	err = r.db.Model(&model.User{}).
		Where("points > ? AND is_public = ?", user.Points, true).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}
