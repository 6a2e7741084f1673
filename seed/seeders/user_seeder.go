package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
)

// UserSeeder creates demo accounts for local development
type UserSeeder struct {
	db *gorm.DB
}

func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

// SeedUsers creates the demo users. Existing accounts are left untouched.
func (s *UserSeeder) SeedUsers() error {
	demoUsers := []struct {
		Email    string
		Username string
		FullName string
		Timezone string
	}{
		{"alice@praxis.local", "alice", "Alice Nguyen", "Asia/Ho_Chi_Minh"},
		{"bob@praxis.local", "bob", "Bob Tran", "America/New_York"},
		{"carol@praxis.local", "carol", "Carol Le", "Europe/Berlin"},
		{"dave@praxis.local", "dave", "", "UTC"},
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	created := 0
	for _, demo := range demoUsers {
		var existing model.User
		if err := s.db.Where("email = ?", demo.Email).First(&existing).Error; err == nil {
			continue
		}

		user := model.User{
			ID:        uuid.New().String(),
			Email:     demo.Email,
			Username:  demo.Username,
			Password:  string(hashedPassword),
			FullName:  demo.FullName,
			Timezone:  demo.Timezone,
			LastLogin: time.Now(),
		}

		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Error creating user %s: %v", demo.Email, err)
			return err
		}
		created++
	}

	log.Printf("Created %d demo users (password: password123)", created)
	return nil
}
