package student

import (
	"time"

	"github.com/electronicdiary/api-school/internal/audit"
)

// Student is the profile record linked to a credential with the Student
// role.
type Student struct {
	ID uint `json:"id" gorm:"primaryKey"`
	audit.AuditableModel

	FullName    string    `json:"fullName"`
	DateOfBirth time.Time `json:"dateOfBirth"`

	ApplicationUserID string `json:"applicationUserId" gorm:"index"`
}
