package grade

import (
	"errors"

	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/student"
)

type Repository interface {
	GetByID(db *gorm.DB, id uint) (*Grade, error)
	GetByIDWithArchived(db *gorm.DB, id uint) (*Grade, error)
	GetAll(db *gorm.DB) ([]Grade, error)
	GetByStudentUserID(db *gorm.DB, userID string) ([]Grade, error)
	GetByAssignmentID(db *gorm.DB, assignmentID uint) ([]Grade, error)
	Create(db *gorm.DB, actor audit.Actor, g *Grade) error
	Update(db *gorm.DB, actor audit.Actor, g *Grade) error
	Delete(db *gorm.DB, actor audit.Actor, id uint) error
}

type repositoryImpl struct {
	store *audit.Store
}

func NewRepository(store *audit.Store) Repository {
	return &repositoryImpl{store: store}
}

func (r *repositoryImpl) GetByID(db *gorm.DB, id uint) (*Grade, error) {
	var g Grade
	if err := db.Scopes(audit.Active).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repositoryImpl) GetByIDWithArchived(db *gorm.DB, id uint) (*Grade, error) {
	var g Grade
	if err := db.Scopes(audit.WithArchived).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repositoryImpl) GetAll(db *gorm.DB) ([]Grade, error) {
	var gs []Grade
	err := db.Scopes(audit.Active).Find(&gs).Error
	return gs, err
}

// GetByStudentUserID returns the grades of the student whose credential id
// is userID.
func (r *repositoryImpl) GetByStudentUserID(db *gorm.DB, userID string) ([]Grade, error) {
	var s student.Student
	err := db.Scopes(audit.Active).Where("application_user_id = ?", userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Grade{}, nil
		}
		return nil, err
	}

	var gs []Grade
	err = db.Scopes(audit.Active).Where("student_id = ?", s.ID).Find(&gs).Error
	return gs, err
}

func (r *repositoryImpl) GetByAssignmentID(db *gorm.DB, assignmentID uint) ([]Grade, error) {
	var gs []Grade
	err := db.Scopes(audit.Active).Where("assignment_id = ?", assignmentID).Find(&gs).Error
	return gs, err
}

func (r *repositoryImpl) Create(db *gorm.DB, actor audit.Actor, g *Grade) error {
	return r.store.Create(db, actor, g)
}

func (r *repositoryImpl) Update(db *gorm.DB, actor audit.Actor, g *Grade) error {
	return r.store.Update(db, actor, g)
}

func (r *repositoryImpl) Delete(db *gorm.DB, actor audit.Actor, id uint) error {
	return r.store.Delete(db, actor, &Grade{}, id)
}
