package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// Refresh tokens live this long; validity is evaluated lazily at read time.
const refreshTokenTTL = 7 * 24 * time.Hour

// RefreshTokenLedger persists issued refresh tokens and their revocation
// state. It is the unit enforcing single use: RevokeIfActive is the only
// mutation a token ever sees, and only one caller can win it.
type RefreshTokenLedger interface {
	Add(db *gorm.DB, token *RefreshToken) error
	GetByToken(db *gorm.DB, value string) (*RefreshToken, error)
	// RevokeIfActive atomically claims a still-active token, writing
	// revoked = now. It reports false when the token was already revoked,
	// expired or absent, which makes concurrent rotation safe: of two
	// refreshes racing on the same token exactly one claims it.
	RevokeIfActive(db *gorm.DB, value string, now time.Time) (bool, error)
}

type refreshTokenLedger struct{}

func NewRefreshTokenLedger() RefreshTokenLedger {
	return &refreshTokenLedger{}
}

func (l *refreshTokenLedger) Add(db *gorm.DB, token *RefreshToken) error {
	return db.Create(token).Error
}

func (l *refreshTokenLedger) GetByToken(db *gorm.DB, value string) (*RefreshToken, error) {
	var token RefreshToken
	if err := db.Where("token = ?", value).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (l *refreshTokenLedger) RevokeIfActive(db *gorm.DB, value string, now time.Time) (bool, error) {
	res := db.Model(&RefreshToken{}).
		Where("token = ? AND revoked IS NULL AND expires > ?", value, now).
		Update("revoked", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NewRefreshToken builds an unsaved ledger entry for the given user with a
// fresh 256-bit secret.
func NewRefreshToken(userID string, now time.Time) (*RefreshToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return &RefreshToken{
		Token:   base64.StdEncoding.EncodeToString(b),
		UserID:  userID,
		Created: now,
		Expires: now.Add(refreshTokenTTL),
	}, nil
}
