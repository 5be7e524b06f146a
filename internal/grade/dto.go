package grade

type GradeDTO struct {
	ID           uint `json:"id"`
	Value        int  `json:"value"`
	AssignmentID uint `json:"assignmentId"`
	StudentID    uint `json:"studentId"`
}

func ToDTO(g Grade) GradeDTO {
	return GradeDTO{ID: g.ID, Value: g.Value, AssignmentID: g.AssignmentID, StudentID: g.StudentID}
}

func ToDTOs(gs []Grade) []GradeDTO {
	dtos := make([]GradeDTO, 0, len(gs))
	for _, g := range gs {
		dtos = append(dtos, ToDTO(g))
	}
	return dtos
}
