package auth

import "time"

// Roles attached to credentials at registration.
const (
	RoleTeacher = "Teacher"
	RoleStudent = "Student"
)

// User is the identity record owned by the credential store: who can log
// in, with what password, and in which role. Profile data (Teacher,
// Student) lives in the domain packages and references the user id.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserName       string    `json:"userName" gorm:"uniqueIndex"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	BirthDate      time.Time `json:"birthDate"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`

	// One-time tokens issued by the store, both time-bounded.
	ConfirmationToken   string    `json:"-"`
	ConfirmationExpires time.Time `json:"-"`
	ResetToken          string    `json:"-"`
	ResetExpires        time.Time `json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RefreshToken is one row of the refresh-token ledger. A token is created
// at login or refresh, revoked at most once, and never physically erased.
type RefreshToken struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	Token   string     `json:"token" gorm:"uniqueIndex"`
	UserID  string     `json:"userId" gorm:"index"`
	Created time.Time  `json:"created"`
	Expires time.Time  `json:"expires"`
	Revoked *time.Time `json:"revoked,omitempty"`
}

// IsActive reports whether the token can still be exchanged: never revoked
// and not yet expired. Validity is computed at read time; there is no
// background sweep.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.Revoked == nil && now.Before(t.Expires)
}
