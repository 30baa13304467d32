package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTSigner_IssueAndVerify(t *testing.T) {
	s := NewJWTSigner("test-secret", time.Hour)

	token, err := s.Issue("user-123", "u@example.com")
	require.NoError(t, err)

	sub, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)

	var claims jwtClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	require.Equal(t, "u@example.com", claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTSigner_Verify_Rejects(t *testing.T) {
	s := NewJWTSigner("test-secret", time.Hour)
	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		t.Helper()
		raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return raw
	}
	secret := []byte("test-secret")
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]string{
		"expired": sign(jwt.RegisteredClaims{Subject: "u", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}, jwt.SigningMethodHS256, secret),
		"no exp":  sign(jwt.RegisteredClaims{Subject: "u"}, jwt.SigningMethodHS256, secret),
		"no sub":  sign(jwt.RegisteredClaims{ExpiresAt: future}, jwt.SigningMethodHS256, secret),
		"hs512":   sign(jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}, jwt.SigningMethodHS512, secret),
		"garbage": "not.a.jwt",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(raw)
			require.ErrorIs(t, err, ErrInvalidJWT)
		})
	}
}
