package assignment

import "time"

type AssignmentDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	TeacherID   uint      `json:"teacherId"`
}

func ToDTO(a Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		IsCompleted: a.IsCompleted,
		TeacherID:   a.TeacherID,
	}
}

func ToDTOs(as []Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, 0, len(as))
	for _, a := range as {
		dtos = append(dtos, ToDTO(a))
	}
	return dtos
}
