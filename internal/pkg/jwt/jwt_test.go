package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	studentID := "6d2f0c1e-0000-0000-0000-000000000001"
	tokenStr, expiresAt, err := svc.GenerateAccessToken("user-1", RoleStudent, &studentID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	assert.Greater(t, expiresAt, int64(0))

	token, err := svc.JWTAuth().Decode(tokenStr)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "student", claims["role"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, studentID, claims["student_id"])
}

func TestGenerateAccessToken_NoStudentClaim(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	tokenStr, _, err := svc.GenerateAccessToken("user-2", RoleTeacher, nil)
	require.NoError(t, err)

	token, err := svc.JWTAuth().Decode(tokenStr)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "teacher", claims["role"])
	_, hasStudentID := claims["student_id"]
	assert.False(t, hasStudentID)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "not-a-duration")

	_, _, err := svc.GenerateAccessToken("user-1", RoleAdmin, nil)
	assert.Error(t, err)
}

func TestVerifier_AcceptsGeneratedToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	tokenStr, _, err := svc.GenerateAccessToken("user-1", RoleAdmin, nil)
	require.NoError(t, err)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		require.NoError(t, err)
		gotUserID, _ = claims["user_id"].(string)
		w.WriteHeader(http.StatusOK)
	})

	handler := jwtauth.Verifier(svc.JWTAuth())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUserID)
}
