package auth

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/email"
)

// TeacherProfiles creates the teacher profile row linked to a new
// credential. Implemented by the teacher repository.
type TeacherProfiles interface {
	CreateProfile(db *gorm.DB, actor audit.Actor, userID, fullName, subject string) error
}

// StudentProfiles creates the student profile row linked to a new
// credential. Implemented by the student repository.
type StudentProfiles interface {
	CreateProfile(db *gorm.DB, actor audit.Actor, userID, fullName string, dateOfBirth time.Time) error
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service coordinates registration, login, refresh-token rotation and
// password reset. All durable state lives in the credential store and the
// refresh-token ledger; the service itself holds no per-request state.
type Service struct {
	db          *gorm.DB
	credentials CredentialStore
	tokens      *TokenIssuer
	ledger      RefreshTokenLedger
	teachers    TeacherProfiles
	students    StudentProfiles
	email       email.Sender
	baseURL     string
	log         zerolog.Logger
	now         func() time.Time
}

// ServiceDeps holds the collaborators of the auth service.
type ServiceDeps struct {
	DB          *gorm.DB
	Credentials CredentialStore
	Tokens      *TokenIssuer
	Ledger      RefreshTokenLedger
	Teachers    TeacherProfiles
	Students    StudentProfiles
	Email       email.Sender
	BaseURL     string
	Log         zerolog.Logger
}

type ServiceOption func(*Service)

// WithNow sets the clock, primarily for tests.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(deps ServiceDeps, opts ...ServiceOption) *Service {
	s := &Service{
		db:          deps.DB,
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		ledger:      deps.Ledger,
		teachers:    deps.Teachers,
		students:    deps.Students,
		email:       deps.Email,
		baseURL:     deps.BaseURL,
		log:         deps.Log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTeacher creates a credential, assigns the Teacher role, creates
// the linked teacher profile and sends a confirmation mail. Validation
// failures from credential creation come back unchanged, with no side
// effects; any later step failing surfaces as a plain error, distinct from
// validation. Registration runs unauthenticated, so profile writes are
// attributed to the system actor.
func (s *Service) RegisterTeacher(userName, email, password, firstName, lastName, subject string, birthDate time.Time) error {
	user, err := s.credentials.Create(s.db, userName, email, password, firstName, lastName, birthDate)
	if err != nil {
		return err
	}

	if err := s.credentials.AssignRole(s.db, user, RoleTeacher); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	if err := s.teachers.CreateProfile(s.db, audit.SystemActor, user.ID, user.FullName(), subject); err != nil {
		return fmt.Errorf("create teacher profile: %w", err)
	}
	return s.sendConfirmationEmail(user)
}

// RegisterStudent mirrors RegisterTeacher for the Student role.
func (s *Service) RegisterStudent(userName, email, password, firstName, lastName string, birthDate time.Time) error {
	user, err := s.credentials.Create(s.db, userName, email, password, firstName, lastName, birthDate)
	if err != nil {
		return err
	}

	if err := s.credentials.AssignRole(s.db, user, RoleStudent); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	if err := s.students.CreateProfile(s.db, audit.SystemActor, user.ID, user.FullName(), birthDate); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return s.sendConfirmationEmail(user)
}

// Login checks the credential and, on success, returns a fresh access and
// refresh token pair. The confirmed-email check deliberately runs before
// the password check, matching the long-observed behavior of this API.
func (s *Service) Login(userName, password string) (*TokenPair, error) {
	user, err := s.credentials.FindByUserName(s.db, userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	if !s.credentials.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(user)
}

// Refresh exchanges a still-active refresh token for a new token pair and
// revokes the presented token. Tokens are strictly single use: the revoke
// is a conditional write, so a concurrent refresh with the same token can
// succeed for at most one caller.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	now := s.now().UTC()

	existing, err := s.ledger.GetByToken(s.db, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalidOrExpired
		}
		return nil, err
	}
	if !existing.IsActive(now) {
		return nil, ErrTokenInvalidOrExpired
	}

	claimed, err := s.ledger.RevokeIfActive(s.db, refreshToken, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Lost the race against another refresh or an explicit revocation.
		return nil, ErrTokenInvalidOrExpired
	}

	user, err := s.credentials.FindByID(s.db, existing.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issuePair(user)
}

// ForgotPassword generates a reset token and mails a reset link.
func (s *Service) ForgotPassword(emailAddr string) error {
	user, err := s.credentials.FindByEmail(s.db, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := s.credentials.GeneratePasswordResetToken(s.db, user)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/reset-password?email=%s&token=%s",
		s.baseURL, url.QueryEscape(emailAddr), url.QueryEscape(token))
	return s.email.Send(user.Email, "Password Reset", email.PasswordResetBody(link))
}

// ResetPassword replaces the credential's password. Existing refresh tokens
// are left untouched.
func (s *Service) ResetPassword(emailAddr, token, newPassword string) error {
	user, err := s.credentials.FindByEmail(s.db, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.credentials.ResetPassword(s.db, user, token, newPassword)
}

// ConfirmEmail validates the one-time confirmation token for a user.
func (s *Service) ConfirmEmail(userID, token string) error {
	return s.credentials.ConfirmEmail(s.db, userID, token)
}

func (s *Service) issuePair(user *User) (*TokenPair, error) {
	now := s.now().UTC()

	access, err := s.tokens.Generate(user.ID, user.UserName, user.Role, now)
	if err != nil {
		return nil, err
	}

	refresh, err := NewRefreshToken(user.ID, now)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Add(s.db, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh.Token}, nil
}

// sendConfirmationEmail is best-effort: the credential and profile are
// already durable, so a delivery failure is logged rather than returned.
func (s *Service) sendConfirmationEmail(user *User) error {
	token, err := s.credentials.GenerateEmailConfirmationToken(s.db, user)
	if err != nil {
		return fmt.Errorf("generate confirmation token: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/confirm-email?userId=%s&token=%s",
		s.baseURL, user.ID, url.QueryEscape(token))
	if err := s.email.Send(user.Email, "Confirm your email", email.ConfirmationBody(link)); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("could not send confirmation email")
	}
	return nil
}
