package audit

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Store is the single write path used by every repository. Each write is
// submitted with an explicit intent (Create, Update or Delete) and the
// store stamps the audit columns accordingly before committing. Deletes are
// converted into soft deletes; no row is ever physically removed here.
type Store struct {
	log zerolog.Logger
	now func() time.Time
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{log: log, now: time.Now}
}

// WithNow replaces the clock, for tests.
func (s *Store) WithNow(now func() time.Time) *Store {
	return &Store{log: s.log, now: now}
}

// Create persists a new row. Caller-supplied audit fields are discarded.
func (s *Store) Create(db *gorm.DB, actor Actor, entity Auditable) error {
	fields := entity.AuditFields()
	*fields = AuditableModel{
		CreatedAt: s.now().UTC(),
		CreatedBy: actor.String(),
	}
	if err := db.Create(entity).Error; err != nil {
		return s.fail(err, "create", entity, actor)
	}
	return nil
}

// Update persists changes to an existing row and stamps Modified*. The
// Created* and Deleted* columns are omitted from the statement, so they stay
// pinned to their stored values even if the caller hands in a stale or
// forged struct.
func (s *Store) Update(db *gorm.DB, actor Actor, entity Auditable) error {
	fields := entity.AuditFields()
	now := s.now().UTC()
	by := actor.String()
	fields.ModifiedAt = &now
	fields.ModifiedBy = &by

	err := db.Omit("CreatedAt", "CreatedBy", "DeletedAt", "DeletedBy").
		Save(entity).Error
	if err != nil {
		return s.fail(err, "update", entity, actor)
	}
	return nil
}

// Delete converts a delete request into an update that writes only the
// Deleted* columns. Any other pending change on the entity is not applied.
// Returns gorm.ErrRecordNotFound when no live row matches the id.
func (s *Store) Delete(db *gorm.DB, actor Actor, model Auditable, id any) error {
	now := s.now().UTC()
	res := db.Model(model).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": now, "deleted_by": actor.String()})
	if res.Error != nil {
		return s.fail(res.Error, "delete", model, actor)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Transaction applies a batch of writes atomically.
func (s *Store) Transaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}

func (s *Store) fail(err error, op string, entity any, actor Actor) error {
	s.log.Error().
		Err(err).
		Str("op", op).
		Str("entity", fmt.Sprintf("%T", entity)).
		Str("actor", actor.String()).
		Msg("error while saving changes to the database")
	return err
}

// Active is the default read scope: soft-deleted rows are excluded from
// every query unless WithArchived is requested explicitly.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// WithArchived includes soft-deleted rows, for audit and admin reads.
func WithArchived(db *gorm.DB) *gorm.DB {
	return db
}
