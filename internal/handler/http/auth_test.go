package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/auth"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/jwt"
	authService "github.com/chub-app/chub-backend-go/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
)

type fakeUserRepo struct {
	users  map[string]user.User
	nextID int
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	m := make(map[string]user.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.nextID++
	u.ID = "user-" + string(rune('0'+f.nextID))
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListActiveMembers(ctx context.Context) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	f.users[u.ID] = u
	return nil
}

func memberUser(id, email, password string) user.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hashStr := string(hash)
	return user.User{
		ID:           id,
		Email:        email,
		PasswordHash: &hashStr,
		FirstName:    "Test",
		LastName:     "User",
		Role:         user.RoleMember,
		IsActive:     true,
		JoinedAt:     time.Now().UTC(),
	}
}

func newAuthHandler(users ...user.User) AuthHandler {
	userRepo := newFakeUserRepo(users...)
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	authSvc := authService.NewAuthService(userRepo, jwtSvc)
	return NewAuthHandler(jwtSvc, authSvc)
}

func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "refresh_token" {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := newAuthHandler()

	registerReq := auth.RegisterRequest{
		Name:            "Ana Silva",
		Email:           "ana@example.com",
		Password:        "SecurePass123",
		ConfirmPassword: "SecurePass123",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	cookie := refreshCookie(w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	handler := newAuthHandler()

	registerReq := auth.RegisterRequest{
		Name:            "Ana Silva",
		Email:           "ana@example.com",
		Password:        "SecurePass123",
		ConfirmPassword: "DifferentPass123",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.NotEqual(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler := newAuthHandler(memberUser("u1", "ana@example.com", "password123"))

	loginReq := auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	}
	body, _ := json.Marshal(loginReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	cookie := refreshCookie(w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := newAuthHandler(memberUser("u1", "ana@example.com", "password123"))

	loginReq := auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrongpassword",
	}
	body, _ := json.Marshal(loginReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	handler := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	handler := newAuthHandler(memberUser("u1", "ana@example.com", "password123"))

	loginBody, _ := json.Marshal(auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	loginW := httptest.NewRecorder()
	handler.Login(loginW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(loginBody)))

	var loginResp map[string]interface{}
	require.NoError(t, json.NewDecoder(loginW.Body).Decode(&loginResp))
	refreshToken := loginResp["data"].(map[string]interface{})["refresh_token"].(string)

	logoutReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	logoutReq.AddCookie(&http.Cookie{
		Name:  "refresh_token",
		Value: refreshToken,
	})
	logoutW := httptest.NewRecorder()

	handler.Logout(logoutW, logoutReq)

	assert.Equal(t, http.StatusOK, logoutW.Code)

	cookie := refreshCookie(logoutW)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	handler := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshToken_FromBody(t *testing.T) {
	handler := newAuthHandler(memberUser("u1", "ana@example.com", "password123"))

	loginBody, _ := json.Marshal(auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	loginW := httptest.NewRecorder()
	handler.Login(loginW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(loginBody)))

	var loginResp map[string]interface{}
	require.NoError(t, json.NewDecoder(loginW.Body).Decode(&loginResp))
	refreshToken := loginResp["data"].(map[string]interface{})["refresh_token"].(string)

	refreshBody, _ := json.Marshal(auth.RefreshTokenRequest{RefreshToken: refreshToken})
	refreshW := httptest.NewRecorder()

	handler.RefreshToken(refreshW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(refreshBody)))

	assert.Equal(t, http.StatusCreated, refreshW.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(refreshW.Body).Decode(&resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	handler := newAuthHandler(memberUser("u1", "ana@example.com", "password123"))

	loginBody, _ := json.Marshal(auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	loginW := httptest.NewRecorder()
	handler.Login(loginW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(loginBody)))

	cookie := refreshCookie(loginW)
	require.NotNil(t, cookie)

	refreshReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	refreshReq.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookie.Value})
	refreshW := httptest.NewRecorder()

	handler.RefreshToken(refreshW, refreshReq)

	assert.Equal(t, http.StatusCreated, refreshW.Code)
}

func TestAuthHandler_RefreshToken_InvalidToken(t *testing.T) {
	handler := newAuthHandler()

	refreshBody, _ := json.Marshal(auth.RefreshTokenRequest{RefreshToken: "invalid-token"})
	w := httptest.NewRecorder()

	handler.RefreshToken(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(refreshBody)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_ResponseFormat_Error(t *testing.T) {
	handler := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid")))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Contains(t, resp, "success")
	assert.False(t, resp["success"].(bool))
}
