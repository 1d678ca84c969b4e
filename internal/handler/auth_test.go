package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"backend/internal/models"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var handlerTestSecret = []byte("handler-test-secret")

func newAuthEnv() (*fakeUserRepo, service.AuthService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	repo := newFakeUserRepo()
	svc := service.NewAuthService(repo, handlerTestSecret, time.Hour, zap.NewNop())
	h := NewAuthHandler(svc, zap.NewNop())

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return repo, svc, r
}

type authResponse struct {
	Token string          `json:"token"`
	User  models.SafeUser `json:"user"`
}

func TestRegisterReturnsTokenAndSafeUser(t *testing.T) {
	repo, _, r := newAuthEnv()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email":     "alice@example.com",
		"password":  "s3cret",
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The raw body must never carry the credential in any form.
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "s3cret")
	assert.NotContains(t, w.Body.String(), "argon2id")

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.FirstName)
	assert.Equal(t, "Smith", resp.User.LastName)

	// The token's verified claims reference the created account.
	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return handlerTestSecret, nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, resp.User.ID, claims.UserID)

	require.Len(t, repo.users, 1)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	repo, _, r := newAuthEnv()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{"email": "bob@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/register", gin.H{"email": "bob@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, repo.users, 1)
}

func TestRegisterValidation(t *testing.T) {
	_, _, r := newAuthEnv()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{"email": "carol@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/register", gin.H{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRoundTrip(t *testing.T) {
	_, _, r := newAuthEnv()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{"email": "dave@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "dave@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "dave@example.com", resp.User.Email)
}

func TestLoginFailuresLeakNoAccountData(t *testing.T) {
	_, _, r := newAuthEnv()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "erin@example.com", "password": "correct", "firstName": "Erin",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "erin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "Erin")
	assert.NotContains(t, w.Body.String(), "token")

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "ghost@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}
