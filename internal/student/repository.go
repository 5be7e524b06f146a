package student

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/models"
	"github.com/electronicdiary/api-school/internal/teacher"
)

type Repository interface {
	GetByID(db *gorm.DB, id uint) (*Student, error)
	GetByIDWithArchived(db *gorm.DB, id uint) (*Student, error)
	GetAll(db *gorm.DB) ([]Student, error)
	GetByTeacherUserID(db *gorm.DB, userID string) ([]Student, error)
	Create(db *gorm.DB, actor audit.Actor, s *Student) error
	Update(db *gorm.DB, actor audit.Actor, s *Student) error
	Delete(db *gorm.DB, actor audit.Actor, id uint) error
	CreateProfile(db *gorm.DB, actor audit.Actor, userID, fullName string, dateOfBirth time.Time) error
}

type repositoryImpl struct {
	store *audit.Store
}

func NewRepository(store *audit.Store) Repository {
	return &repositoryImpl{store: store}
}

func (r *repositoryImpl) GetByID(db *gorm.DB, id uint) (*Student, error) {
	var s Student
	if err := db.Scopes(audit.Active).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) GetByIDWithArchived(db *gorm.DB, id uint) (*Student, error) {
	var s Student
	if err := db.Scopes(audit.WithArchived).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) GetAll(db *gorm.DB) ([]Student, error) {
	var ss []Student
	err := db.Scopes(audit.Active).Find(&ss).Error
	return ss, err
}

// GetByTeacherUserID returns the students linked to the teacher whose
// credential id is userID, via the teacher_students join table. An unknown
// teacher or an empty link set yields an empty slice, not an error.
func (r *repositoryImpl) GetByTeacherUserID(db *gorm.DB, userID string) ([]Student, error) {
	var t teacher.Teacher
	err := db.Scopes(audit.Active).Where("application_user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Student{}, nil
		}
		return nil, err
	}

	var studentIDs []uint
	err = db.Model(&models.TeacherStudent{}).
		Scopes(audit.Active).
		Where("teacher_id = ?", t.ID).
		Pluck("student_id", &studentIDs).Error
	if err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return []Student{}, nil
	}

	var ss []Student
	err = db.Scopes(audit.Active).Where("id IN ?", studentIDs).Find(&ss).Error
	return ss, err
}

func (r *repositoryImpl) Create(db *gorm.DB, actor audit.Actor, s *Student) error {
	return r.store.Create(db, actor, s)
}

func (r *repositoryImpl) Update(db *gorm.DB, actor audit.Actor, s *Student) error {
	return r.store.Update(db, actor, s)
}

func (r *repositoryImpl) Delete(db *gorm.DB, actor audit.Actor, id uint) error {
	return r.store.Delete(db, actor, &Student{}, id)
}

// CreateProfile creates the student row linked to a freshly registered
// credential. Satisfies auth.StudentProfiles.
func (r *repositoryImpl) CreateProfile(db *gorm.DB, actor audit.Actor, userID, fullName string, dateOfBirth time.Time) error {
	s := Student{
		FullName:          fullName,
		DateOfBirth:       dateOfBirth,
		ApplicationUserID: userID,
	}
	return r.store.Create(db, actor, &s)
}
