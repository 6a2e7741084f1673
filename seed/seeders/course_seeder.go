package seeders

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis-learning/praxis_api/model"
)

// CourseSeeder creates demo courses with modules and lessons
type CourseSeeder struct {
	db *gorm.DB
}

func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{db: db}
}

type courseFixture struct {
	Name        string
	Description string
	Modules     []moduleFixture
}

type moduleFixture struct {
	Name    string
	Lessons []string
}

var demoCourses = []courseFixture{
	{
		Name:        "Go Fundamentals",
		Description: "Syntax, types, and tooling for newcomers to Go.",
		Modules: []moduleFixture{
			{Name: "Getting Started", Lessons: []string{"Installing the toolchain", "Your first program", "Packages and imports"}},
			{Name: "Types and Control Flow", Lessons: []string{"Basic types", "Slices and maps", "Loops and conditionals", "Functions"}},
			{Name: "Error Handling", Lessons: []string{"The error interface", "Wrapping errors", "Panics and recovery"}},
		},
	},
	{
		Name:        "Practical SQL",
		Description: "Modeling, querying, and indexing relational data.",
		Modules: []moduleFixture{
			{Name: "Foundations", Lessons: []string{"Tables and rows", "SELECT basics", "Filtering and sorting"}},
			{Name: "Joins and Aggregates", Lessons: []string{"Inner and outer joins", "GROUP BY", "Window functions"}},
		},
	},
}

// SeedCourses creates the demo courses. A course whose name already exists
// is skipped rather than duplicated.
func (s *CourseSeeder) SeedCourses() error {
	var creator model.User
	if err := s.db.Order("created_at ASC").First(&creator).Error; err != nil {
		return fmt.Errorf("no users to own seeded courses, run user seeding first: %w", err)
	}

	created := 0
	for _, fixture := range demoCourses {
		var existing model.Course
		if err := s.db.Where("name = ?", fixture.Name).First(&existing).Error; err == nil {
			continue
		}

		if err := s.createCourse(fixture, creator.ID); err != nil {
			log.Printf("Error creating course %s: %v", fixture.Name, err)
			return err
		}
		created++
	}

	log.Printf("Created %d demo courses (creator: %s)", created, creator.Username)
	return nil
}

func (s *CourseSeeder) createCourse(fixture courseFixture, creatorID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		course := model.Course{
			ID:          uuid.New().String(),
			Name:        fixture.Name,
			Description: fixture.Description,
			CreatorID:   creatorID,
			IsActive:    true,
			IsPublic:    true,
		}
		if err := tx.Create(&course).Error; err != nil {
			return err
		}

		for mi, mod := range fixture.Modules {
			module := model.Module{
				ID:          uuid.New().String(),
				CourseID:    course.ID,
				Name:        mod.Name,
				ModuleOrder: mi + 1,
			}
			if err := tx.Create(&module).Error; err != nil {
				return err
			}

			for li, lessonName := range mod.Lessons {
				lesson := model.Lesson{
					ID:          uuid.New().String(),
					ModuleID:    module.ID,
					Name:        lessonName,
					LessonOrder: li + 1,
				}
				if err := tx.Create(&lesson).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}
