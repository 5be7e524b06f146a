package auth_test

import (
	"errors"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/auth"
	"github.com/electronicdiary/api-school/internal/models"
	"github.com/electronicdiary/api-school/internal/student"
	"github.com/electronicdiary/api-school/internal/teacher"
)

const (
	testUserName  = "t1"
	testEmail     = "t1@x.com"
	testPassword  = "Password1"
	testFirstName = "John"
	testLastName  = "Doe"
	testSubject   = "Mathematics"
)

var testBirthDate = time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)

type recordedEmail struct {
	To      string
	Subject string
	Body    string
}

type recorderSender struct {
	mu   sync.Mutex
	sent []recordedEmail
}

func (r *recorderSender) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, recordedEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *recorderSender) all() []recordedEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEmail(nil), r.sent...)
}

func openAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&auth.User{},
		&auth.RefreshToken{},
		&teacher.Teacher{},
		&student.Student{},
		&models.TeacherStudent{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, sender *recorderSender, baseURL string) *auth.Service {
	t.Helper()
	store := audit.NewStore(zerolog.Nop())
	return auth.NewService(auth.ServiceDeps{
		DB:          db,
		Credentials: auth.NewCredentialStore(),
		Tokens:      auth.NewTokenIssuer("TestKeyTestKeyTestKeyTestKeyTest", "TestIssuer", "TestAudience", 60),
		Ledger:      auth.NewRefreshTokenLedger(),
		Teachers:    teacher.NewRepository(store),
		Students:    student.NewRepository(store),
		Email:       sender,
		BaseURL:     baseURL,
		Log:         zerolog.Nop(),
	})
}

var tokenParamRe = regexp.MustCompile(`token=([^"&]+)`)

func extractToken(t *testing.T, body string) string {
	t.Helper()
	m := tokenParamRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "mail body should contain a token parameter")
	token, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

// registerConfirmedTeacher registers the default teacher and walks the
// e-mail confirmation, returning the credential.
func registerConfirmedTeacher(t *testing.T, svc *auth.Service, db *gorm.DB, sender *recorderSender) *auth.User {
	t.Helper()
	require.NoError(t, svc.RegisterTeacher(testUserName, testEmail, testPassword, testFirstName, testLastName, testSubject, testBirthDate))

	var user auth.User
	require.NoError(t, db.Where("user_name = ?", testUserName).First(&user).Error)

	mails := sender.all()
	require.NotEmpty(t, mails)
	token := extractToken(t, mails[len(mails)-1].Body)
	require.NoError(t, svc.ConfirmEmail(user.ID, token))
	return &user
}

func TestRegisterTeacherSuccess(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	err := svc.RegisterTeacher(testUserName, testEmail, testPassword, testFirstName, testLastName, testSubject, testBirthDate)
	require.NoError(t, err)

	var user auth.User
	require.NoError(t, db.Where("user_name = ?", testUserName).First(&user).Error)
	require.Equal(t, auth.RoleTeacher, user.Role)
	require.False(t, user.EmailConfirmed)

	var profile teacher.Teacher
	require.NoError(t, db.Where("application_user_id = ?", user.ID).First(&profile).Error)
	require.Equal(t, "John Doe", profile.FullName)
	require.Equal(t, testSubject, profile.Subject)

	mails := sender.all()
	require.Len(t, mails, 1)
	require.Equal(t, testEmail, mails[0].To)
	require.Contains(t, mails[0].Body, "confirm-email?userId="+user.ID)
	extractToken(t, mails[0].Body)
}

func TestRegisterStudentSuccess(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	err := svc.RegisterStudent("s1", "s1@x.com", testPassword, "Jane", "Roe", testBirthDate)
	require.NoError(t, err)

	var user auth.User
	require.NoError(t, db.Where("user_name = ?", "s1").First(&user).Error)
	require.Equal(t, auth.RoleStudent, user.Role)

	var profile student.Student
	require.NoError(t, db.Where("application_user_id = ?", user.ID).First(&profile).Error)
	require.Equal(t, "Jane Roe", profile.FullName)
	require.True(t, profile.DateOfBirth.Equal(testBirthDate))

	require.Len(t, sender.all(), 1)
}

func TestRegisterValidationFailureHasNoSideEffects(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	err := svc.RegisterTeacher(testUserName, testEmail, "weak", testFirstName, testLastName, testSubject, testBirthDate)

	var vErr *auth.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NotEmpty(t, vErr.Errors)

	var users, profiles int64
	require.NoError(t, db.Model(&auth.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&teacher.Teacher{}).Count(&profiles).Error)
	require.Zero(t, users)
	require.Zero(t, profiles)
	require.Empty(t, sender.all())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	require.NoError(t, svc.RegisterTeacher(testUserName, testEmail, testPassword, testFirstName, testLastName, testSubject, testBirthDate))

	err := svc.RegisterTeacher(testUserName, "other@x.com", testPassword, testFirstName, testLastName, testSubject, testBirthDate)
	var vErr *auth.ValidationError
	require.ErrorAs(t, err, &vErr)

	var users int64
	require.NoError(t, db.Model(&auth.User{}).Count(&users).Error)
	require.EqualValues(t, 1, users)
}

func TestLoginUnconfirmedEmail(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	require.NoError(t, svc.RegisterTeacher(testUserName, testEmail, testPassword, testFirstName, testLastName, testSubject, testBirthDate))

	// The confirmation check runs before the password check, so the answer
	// is the same for right and wrong passwords.
	_, err := svc.Login(testUserName, testPassword)
	require.ErrorIs(t, err, auth.ErrEmailNotConfirmed)

	_, err = svc.Login(testUserName, "WrongPassword1")
	require.ErrorIs(t, err, auth.ErrEmailNotConfirmed)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	_, err := svc.Login("nobody", testPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	registerConfirmedTeacher(t, svc, db, sender)
	_, err = svc.Login(testUserName, "WrongPassword1")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginSuccessIssuesTokenPair(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	user := registerConfirmedTeacher(t, svc, db, sender)

	pair, err := svc.Login(testUserName, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	var ledgered auth.RefreshToken
	require.NoError(t, db.Where("token = ?", pair.RefreshToken).First(&ledgered).Error)
	require.Equal(t, user.ID, ledgered.UserID)
	require.Nil(t, ledgered.Revoked)
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	registerConfirmedTeacher(t, svc, db, sender)
	pair1, err := svc.Login(testUserName, testPassword)
	require.NoError(t, err)

	pair2, err := svc.Refresh(pair1.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)

	// The presented token was revoked, not erased.
	var old auth.RefreshToken
	require.NoError(t, db.Where("token = ?", pair1.RefreshToken).First(&old).Error)
	require.NotNil(t, old.Revoked)

	_, err = svc.Refresh(pair1.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)

	// The replacement is still good.
	_, err = svc.Refresh(pair2.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	_, err := svc.Refresh("never-issued")
	require.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)
}

func TestRefreshExpiredToken(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	user := registerConfirmedTeacher(t, svc, db, sender)

	expired := auth.RefreshToken{
		Token:   "expired-token",
		UserID:  user.ID,
		Created: time.Now().UTC().Add(-8 * 24 * time.Hour),
		Expires: time.Now().UTC().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&expired).Error)

	_, err := svc.Refresh(expired.Token)
	require.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)
}

func TestRefreshConcurrentUseSingleWinner(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	registerConfirmedTeacher(t, svc, db, sender)
	pair, err := svc.Login(testUserName, testPassword)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Refresh(pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	var successes, replays int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)
			replays++
		}
	}
	require.Equal(t, 1, successes, "exactly one concurrent refresh may win")
	require.Equal(t, 1, replays)
}

func TestConfirmEmailUnknownUser(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	require.ErrorIs(t, svc.ConfirmEmail("nobody", "some-token"), auth.ErrUserNotFound)
}

func TestConfirmEmailStorageFailurePropagates(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	user := registerConfirmedTeacher(t, svc, db, sender)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// A broken store is an infrastructure failure, not a missing user or a
	// bad token.
	err = svc.ConfirmEmail(user.ID, "some-token")
	require.Error(t, err)
	require.NotErrorIs(t, err, auth.ErrUserNotFound)
	var vErr *auth.ValidationError
	require.False(t, errors.As(err, &vErr))
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	require.ErrorIs(t, svc.ForgotPassword("nobody@x.com"), auth.ErrUserNotFound)
	require.Empty(t, sender.all())
}

func TestPasswordResetFlow(t *testing.T) {
	db := openAuthDB(t)
	sender := &recorderSender{}
	svc := newTestService(t, db, sender, "http://localhost")

	registerConfirmedTeacher(t, svc, db, sender)
	pair, err := svc.Login(testUserName, testPassword)
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(testEmail))
	mails := sender.all()
	resetMail := mails[len(mails)-1]
	require.Contains(t, resetMail.Body, "reset-password?email=")
	resetToken := extractToken(t, resetMail.Body)

	// Wrong token is a validation failure.
	var vErr *auth.ValidationError
	require.ErrorAs(t, svc.ResetPassword(testEmail, "bogus", "NewPassword1"), &vErr)

	// Weak replacement password is rejected with the full rule list.
	require.ErrorAs(t, svc.ResetPassword(testEmail, resetToken, "short"), &vErr)

	require.NoError(t, svc.ResetPassword(testEmail, resetToken, "NewPassword1"))

	_, err = svc.Login(testUserName, testPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(testUserName, "NewPassword1")
	require.NoError(t, err)

	// Outstanding refresh tokens are untouched by a password reset.
	_, err = svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
}
