package learning

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// Levels lists the accepted course levels in ascending order.
var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

func IsLevel(s string) bool {
	return slices.Contains(Levels, s)
}

// Course is a syllabus saved by one user. CourseID is client-visible and only
// unique per user.
type Course struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail       string         `gorm:"column:user_email;not null;uniqueIndex:idx_user_courses_user_course,priority:1" json:"user_email"`
	CourseID        string         `gorm:"column:course_id;not null;uniqueIndex:idx_user_courses_user_course,priority:2" json:"course_id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Topic           string         `gorm:"column:topic" json:"topic"`
	Level           string         `gorm:"column:level" json:"level"`
	ProgressPercent int            `gorm:"column:progress_percent;not null;default:0" json:"progress_percent"`
	ChaptersJSON    datatypes.JSON `gorm:"column:chapters_json" json:"-"`
	LastAccessed    time.Time      `gorm:"column:last_accessed;not null;index" json:"last_accessed"`

	Chapters []Chapter `gorm:"-" json:"chapters"`
}

func (Course) TableName() string { return "user_courses" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AfterFind decodes the stored chapter list. Rows written before chapters
// were tracked decode to an empty list.
func (c *Course) AfterFind(tx *gorm.DB) error {
	c.Chapters = []Chapter{}
	if len(c.ChaptersJSON) == 0 {
		return nil
	}
	var chapters []Chapter
	if err := json.Unmarshal(c.ChaptersJSON, &chapters); err != nil {
		return err
	}
	if chapters != nil {
		c.Chapters = chapters
	}
	return nil
}

type Chapter struct {
	Title   string   `json:"title"`
	Lessons []string `json:"lessons"`
}

// Syllabus is the generated course outline. It is not persisted until the
// client saves it as a Course.
type Syllabus struct {
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
