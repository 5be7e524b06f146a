package assignment

import (
	"errors"

	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/teacher"
)

type Repository interface {
	GetByID(db *gorm.DB, id uint) (*Assignment, error)
	GetByIDWithArchived(db *gorm.DB, id uint) (*Assignment, error)
	GetAll(db *gorm.DB) ([]Assignment, error)
	GetByTeacherUserID(db *gorm.DB, userID string) ([]Assignment, error)
	Create(db *gorm.DB, actor audit.Actor, a *Assignment) error
	Update(db *gorm.DB, actor audit.Actor, a *Assignment) error
	Delete(db *gorm.DB, actor audit.Actor, id uint) error
}

type repositoryImpl struct {
	store *audit.Store
}

func NewRepository(store *audit.Store) Repository {
	return &repositoryImpl{store: store}
}

func (r *repositoryImpl) GetByID(db *gorm.DB, id uint) (*Assignment, error) {
	var a Assignment
	if err := db.Scopes(audit.Active).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) GetByIDWithArchived(db *gorm.DB, id uint) (*Assignment, error) {
	var a Assignment
	if err := db.Scopes(audit.WithArchived).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) GetAll(db *gorm.DB) ([]Assignment, error) {
	var as []Assignment
	err := db.Scopes(audit.Active).Find(&as).Error
	return as, err
}

// GetByTeacherUserID returns the assignments handed out by the teacher
// whose credential id is userID.
func (r *repositoryImpl) GetByTeacherUserID(db *gorm.DB, userID string) ([]Assignment, error) {
	var t teacher.Teacher
	err := db.Scopes(audit.Active).Where("application_user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Assignment{}, nil
		}
		return nil, err
	}

	var as []Assignment
	err = db.Scopes(audit.Active).Where("teacher_id = ?", t.ID).Find(&as).Error
	return as, err
}

func (r *repositoryImpl) Create(db *gorm.DB, actor audit.Actor, a *Assignment) error {
	return r.store.Create(db, actor, a)
}

func (r *repositoryImpl) Update(db *gorm.DB, actor audit.Actor, a *Assignment) error {
	return r.store.Update(db, actor, a)
}

func (r *repositoryImpl) Delete(db *gorm.DB, actor audit.Actor, id uint) error {
	return r.store.Delete(db, actor, &Assignment{}, id)
}
