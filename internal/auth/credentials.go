package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/utils"
)

// Confirmation and reset tokens expire after this long.
const oneTimeTokenTTL = 24 * time.Hour

// CredentialStore owns user identity records. The orchestrator only
// consumes these operations; everything about how credentials are stored
// and validated lives behind this interface.
type CredentialStore interface {
	Create(db *gorm.DB, userName, email, password, firstName, lastName string, birthDate time.Time) (*User, error)
	FindByID(db *gorm.DB, id string) (*User, error)
	FindByUserName(db *gorm.DB, userName string) (*User, error)
	FindByEmail(db *gorm.DB, email string) (*User, error)
	CheckPassword(user *User, password string) bool
	AssignRole(db *gorm.DB, user *User, role string) error
	GenerateEmailConfirmationToken(db *gorm.DB, user *User) (string, error)
	ConfirmEmail(db *gorm.DB, userID, token string) error
	GeneratePasswordResetToken(db *gorm.DB, user *User) (string, error)
	ResetPassword(db *gorm.DB, user *User, token, newPassword string) error
}

type credentialStore struct {
	now func() time.Time
}

func NewCredentialStore() CredentialStore {
	return &credentialStore{now: time.Now}
}

func (s *credentialStore) Create(db *gorm.DB, userName, email, password, firstName, lastName string, birthDate time.Time) (*User, error) {
	var errs []string

	if strings.TrimSpace(userName) == "" {
		errs = append(errs, "Username is required.")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		errs = append(errs, "A valid email is required.")
	}
	errs = append(errs, passwordRuleErrors(password)...)

	if userName != "" {
		var count int64
		if err := db.Model(&User{}).Where("user_name = ?", userName).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			errs = append(errs, fmt.Sprintf("Username '%s' is already taken.", userName))
		}
	}
	if email != "" {
		var count int64
		if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			errs = append(errs, fmt.Sprintf("Email '%s' is already taken.", email))
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		BirthDate:    birthDate,
		CreatedAt:    s.now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *credentialStore) FindByID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *credentialStore) FindByUserName(db *gorm.DB, userName string) (*User, error) {
	var user User
	if err := db.Where("user_name = ?", userName).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *credentialStore) FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *credentialStore) CheckPassword(user *User, password string) bool {
	return utils.CheckPassword(user.PasswordHash, password)
}

func (s *credentialStore) AssignRole(db *gorm.DB, user *User, role string) error {
	user.Role = role
	return db.Model(user).Update("role", role).Error
}

func (s *credentialStore) GenerateEmailConfirmationToken(db *gorm.DB, user *User) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	user.ConfirmationToken = token
	user.ConfirmationExpires = s.now().UTC().Add(oneTimeTokenTTL)
	err = db.Model(user).Updates(map[string]any{
		"confirmation_token":   user.ConfirmationToken,
		"confirmation_expires": user.ConfirmationExpires,
	}).Error
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *credentialStore) ConfirmEmail(db *gorm.DB, userID, token string) error {
	user, err := s.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if token == "" || user.ConfirmationToken != token || s.now().After(user.ConfirmationExpires) {
		return validationFailed("Invalid token.")
	}
	return db.Model(user).Updates(map[string]any{
		"email_confirmed":    true,
		"confirmation_token": "",
	}).Error
}

func (s *credentialStore) GeneratePasswordResetToken(db *gorm.DB, user *User) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	user.ResetToken = token
	user.ResetExpires = s.now().UTC().Add(oneTimeTokenTTL)
	err = db.Model(user).Updates(map[string]any{
		"reset_token":   user.ResetToken,
		"reset_expires": user.ResetExpires,
	}).Error
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *credentialStore) ResetPassword(db *gorm.DB, user *User, token, newPassword string) error {
	if token == "" || user.ResetToken != token || s.now().After(user.ResetExpires) {
		return validationFailed("Invalid token.")
	}
	if errs := passwordRuleErrors(newPassword); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return db.Model(user).Updates(map[string]any{
		"password_hash": hash,
		"reset_token":   "",
	}).Error
}

// passwordRuleErrors applies the account password policy: at least eight
// characters with an upper-case letter, a lower-case letter and a digit.
func passwordRuleErrors(password string) []string {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "Passwords must be at least 8 characters.")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, "Passwords must have at least one uppercase letter.")
	}
	if !hasLower {
		errs = append(errs, "Passwords must have at least one lowercase letter.")
	}
	if !hasDigit {
		errs = append(errs, "Passwords must have at least one digit.")
	}
	return errs
}

// randomToken returns 32 bytes from a CSPRNG, base64-encoded.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
