package assignment

import (
	"time"

	"github.com/electronicdiary/api-school/internal/audit"
)

// Assignment is a piece of work handed out by a teacher.
type Assignment struct {
	ID uint `json:"id" gorm:"primaryKey"`
	audit.AuditableModel

	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`

	TeacherID uint `json:"teacherId" gorm:"index"`
}
