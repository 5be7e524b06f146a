package teacher

// TeacherDTO is the transfer shape exposed by the teacher endpoints.
type TeacherDTO struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Subject  string `json:"subject"`
}

func ToDTO(t Teacher) TeacherDTO {
	return TeacherDTO{ID: t.ID, FullName: t.FullName, Subject: t.Subject}
}

func ToDTOs(ts []Teacher) []TeacherDTO {
	dtos := make([]TeacherDTO, 0, len(ts))
	for _, t := range ts {
		dtos = append(dtos, ToDTO(t))
	}
	return dtos
}
