package model

import "time"

type User struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	Email             string     `json:"email" gorm:"unique;not null"`
	Username          string     `json:"username" gorm:"unique;not null"`
	Password          string     `json:"-"`
	FullName          string     `json:"full_name"`
	Avatar            string     `json:"avatar"`
	Title             string     `json:"title"`
	Bio               string     `json:"bio" gorm:"type:text"`
	WebsiteURL        string     `json:"website_url"`
	IsPublic          bool       `json:"is_public" gorm:"default:true"`
	Points            int        `json:"points" gorm:"not null;default:0"`
	Timezone          string     `json:"timezone" gorm:"default:UTC"`
	TimezoneUpdatedAt *time.Time `json:"timezone_updated_at"`

	// Active enrollment pointer. Nil means the user may join or create a course.
	EnrollmentID *string `json:"enrollment_id" gorm:"index"`

	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the full name when set, otherwise the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// CanJoinCourse reports whether the user is free to join or create a course.
func (u *User) CanJoinCourse() bool {
	return u.EnrollmentID == nil
}

// Location resolves the user's IANA timezone, defaulting to UTC when the
// stored value is empty or invalid.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CanUpdateTimezone enforces the 30 day lock between timezone changes.
func (u *User) CanUpdateTimezone(now time.Time) bool {
	if u.TimezoneUpdatedAt == nil {
		return true
	}
	return now.Sub(*u.TimezoneUpdatedAt) >= 30*24*time.Hour
}
