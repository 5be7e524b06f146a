package grade

import "github.com/electronicdiary/api-school/internal/audit"

// Grade is a mark given to a student for an assignment.
type Grade struct {
	ID uint `json:"id" gorm:"primaryKey"`
	audit.AuditableModel

	Value int `json:"value"`

	AssignmentID uint `json:"assignmentId" gorm:"index"`
	StudentID    uint `json:"studentId" gorm:"index"`
}
