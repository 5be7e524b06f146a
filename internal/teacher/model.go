package teacher

import "github.com/electronicdiary/api-school/internal/audit"

// Teacher is the profile record linked to a credential with the Teacher
// role.
type Teacher struct {
	ID uint `json:"id" gorm:"primaryKey"`
	audit.AuditableModel

	FullName string `json:"fullName"`
	Subject  string `json:"subject"`

	ApplicationUserID string `json:"applicationUserId" gorm:"index"`
}
