package model

import "time"

// Course is a unit of study made of ordered modules, each holding ordered
// lessons. The lesson count drives both the enrollment bonus deadline and
// the course completion bonus.
type Course struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Link        string    `json:"link"`
	CreatorID   string    `json:"creator_id" gorm:"not null;index"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	IsPublic    bool      `json:"is_public" gorm:"default:true"`
	IsFeatured  bool      `json:"is_featured" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

type Module struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CourseID    string    `json:"course_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	ModuleOrder int       `json:"module_order" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

type Lesson struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ModuleID    string    `json:"module_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	LessonOrder int       `json:"lesson_order" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Module Module `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
}
