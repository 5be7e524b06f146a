package student

import "time"

type StudentDTO struct {
	ID          uint      `json:"id"`
	FullName    string    `json:"fullName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

func ToDTO(s Student) StudentDTO {
	return StudentDTO{ID: s.ID, FullName: s.FullName, DateOfBirth: s.DateOfBirth}
}

func ToDTOs(ss []Student) []StudentDTO {
	dtos := make([]StudentDTO, 0, len(ss))
	for _, s := range ss {
		dtos = append(dtos, ToDTO(s))
	}
	return dtos
}
