package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CachedLesson memoizes generated lesson content per (course_id, lesson_title).
type CachedLesson struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        string    `gorm:"column:course_id;not null;uniqueIndex:idx_lessons_course_title,priority:1" json:"course_id"`
	LessonTitle     string    `gorm:"column:lesson_title;not null;uniqueIndex:idx_lessons_course_title,priority:2" json:"lesson_title"`
	Topic           string    `gorm:"column:topic" json:"topic"`
	Level           string    `gorm:"column:level" json:"level"`
	ContentMarkdown string    `gorm:"column:content_markdown;type:text" json:"content_markdown"`
	MermaidCode     string    `gorm:"column:mermaid_code;type:text" json:"mermaid_code"`
	Explanation     string    `gorm:"column:explanation;type:text" json:"explanation"`
	CreatedAt       time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (CachedLesson) TableName() string { return "lessons" }

func (l *CachedLesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LessonContent is the generate-lesson response body.
type LessonContent struct {
	LessonTitle      string `json:"lesson_title"`
	ContentMarkdown  string `json:"content_markdown"`
	MermaidCode      string `json:"mermaid_code"`
	Explanation      string `json:"explanation,omitempty"`
	Summary          string `json:"summary"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Cached           bool   `json:"cached,omitempty"`
}
