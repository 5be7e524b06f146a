// Package models holds the join tables shared between domain packages.
package models

import "github.com/electronicdiary/api-school/internal/audit"

// TeacherStudent links a teacher to one of their students.
type TeacherStudent struct {
	ID uint `json:"id" gorm:"primaryKey"`
	audit.AuditableModel

	TeacherID uint `json:"teacherId" gorm:"index"`
	StudentID uint `json:"studentId" gorm:"index"`
}

// StudentAssignment links a student to an assignment handed out to them.
type StudentAssignment struct {
	ID uint `json:"id" gorm:"primaryKey"`
	audit.AuditableModel

	StudentID    uint `json:"studentId" gorm:"index"`
	AssignmentID uint `json:"assignmentId" gorm:"index"`
}
