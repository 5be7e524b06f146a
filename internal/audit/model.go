package audit

import "time"

// SystemActor is attributed to writes that happen outside an authenticated
// request (migrations, background jobs).
const SystemActor Actor = "system"

// Actor identifies the principal responsible for a persistence write,
// normally the user id taken from the access token.
type Actor string

func (a Actor) String() string {
	if a == "" {
		return string(SystemActor)
	}
	return string(a)
}

// AuditableModel carries the stamp columns shared by every persisted entity.
// Created* are written once at first persistence; Modified* on every later
// update; Deleted* once, by the soft-delete conversion in Store.
type AuditableModel struct {
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  string     `json:"createdBy"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy *string    `json:"modifiedBy,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" gorm:"index"`
	DeletedBy  *string    `json:"deletedBy,omitempty"`
}

// AuditFields lets Store reach the stamp columns of any entity embedding
// AuditableModel.
func (m *AuditableModel) AuditFields() *AuditableModel { return m }

// Auditable is satisfied by every entity that embeds AuditableModel.
type Auditable interface {
	AuditFields() *AuditableModel
}
