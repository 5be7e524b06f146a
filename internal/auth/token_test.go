package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/electronicdiary/api-school/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("TestKeyTestKeyTestKeyTestKeyTest", "TestIssuer", "TestAudience", 60)

	signed, err := issuer.Generate("user-1", testUserName, auth.RoleTeacher, time.Now().UTC())
	require.NoError(t, err)

	claims, err := issuer.ParseAndValidate(signed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, testUserName, claims.Name)
	require.Equal(t, auth.RoleTeacher, claims.Role)
}

func TestTokenExpired(t *testing.T) {
	issuer := auth.NewTokenIssuer("TestKeyTestKeyTestKeyTestKeyTest", "TestIssuer", "TestAudience", 60)

	signed, err := issuer.Generate("user-1", testUserName, auth.RoleTeacher, time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = issuer.ParseAndValidate(signed)
	require.Error(t, err)
}

func TestTokenRejectsForeignKeyIssuerAudience(t *testing.T) {
	issuer := auth.NewTokenIssuer("TestKeyTestKeyTestKeyTestKeyTest", "TestIssuer", "TestAudience", 60)
	now := time.Now().UTC()

	cases := map[string]*auth.TokenIssuer{
		"other key":      auth.NewTokenIssuer("OtherKeyOtherKeyOtherKeyOtherKey", "TestIssuer", "TestAudience", 60),
		"other issuer":   auth.NewTokenIssuer("TestKeyTestKeyTestKeyTestKeyTest", "OtherIssuer", "TestAudience", 60),
		"other audience": auth.NewTokenIssuer("TestKeyTestKeyTestKeyTestKeyTest", "TestIssuer", "OtherAudience", 60),
	}
	for name, foreign := range cases {
		t.Run(name, func(t *testing.T) {
			signed, err := foreign.Generate("user-1", testUserName, auth.RoleTeacher, now)
			require.NoError(t, err)

			_, err = issuer.ParseAndValidate(signed)
			require.Error(t, err)
		})
	}
}
