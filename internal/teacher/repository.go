package teacher

import (
	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
)

type Repository interface {
	GetByID(db *gorm.DB, id uint) (*Teacher, error)
	GetByIDWithArchived(db *gorm.DB, id uint) (*Teacher, error)
	GetAll(db *gorm.DB) ([]Teacher, error)
	GetByUserID(db *gorm.DB, userID string) (*Teacher, error)
	Create(db *gorm.DB, actor audit.Actor, t *Teacher) error
	Update(db *gorm.DB, actor audit.Actor, t *Teacher) error
	Delete(db *gorm.DB, actor audit.Actor, id uint) error
	CreateProfile(db *gorm.DB, actor audit.Actor, userID, fullName, subject string) error
}

type repositoryImpl struct {
	store *audit.Store
}

func NewRepository(store *audit.Store) Repository {
	return &repositoryImpl{store: store}
}

func (r *repositoryImpl) GetByID(db *gorm.DB, id uint) (*Teacher, error) {
	var t Teacher
	if err := db.Scopes(audit.Active).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) GetByIDWithArchived(db *gorm.DB, id uint) (*Teacher, error) {
	var t Teacher
	if err := db.Scopes(audit.WithArchived).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) GetAll(db *gorm.DB) ([]Teacher, error) {
	var ts []Teacher
	err := db.Scopes(audit.Active).Find(&ts).Error
	return ts, err
}

func (r *repositoryImpl) GetByUserID(db *gorm.DB, userID string) (*Teacher, error) {
	var t Teacher
	if err := db.Scopes(audit.Active).Where("application_user_id = ?", userID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) Create(db *gorm.DB, actor audit.Actor, t *Teacher) error {
	return r.store.Create(db, actor, t)
}

func (r *repositoryImpl) Update(db *gorm.DB, actor audit.Actor, t *Teacher) error {
	return r.store.Update(db, actor, t)
}

func (r *repositoryImpl) Delete(db *gorm.DB, actor audit.Actor, id uint) error {
	return r.store.Delete(db, actor, &Teacher{}, id)
}

// CreateProfile creates the teacher row linked to a freshly registered
// credential. Satisfies auth.TeacherProfiles.
func (r *repositoryImpl) CreateProfile(db *gorm.DB, actor audit.Actor, userID, fullName, subject string) error {
	t := Teacher{
		FullName:          fullName,
		Subject:           subject,
		ApplicationUserID: userID,
	}
	return r.store.Create(db, actor, &t)
}
