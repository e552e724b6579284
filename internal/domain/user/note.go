package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail string    `gorm:"column:user_email;not null;uniqueIndex:idx_user_notes_key,priority:1" json:"user_email"`
	CourseID  string    `gorm:"column:course_id;not null;uniqueIndex:idx_user_notes_key,priority:2" json:"course_id"`
	LessonID  string    `gorm:"column:lesson_id;not null;uniqueIndex:idx_user_notes_key,priority:3" json:"lesson_id"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Note) TableName() string { return "user_notes" }

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
