package auth

import (
	"context"
	"testing"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/auth"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testAccessExp  = "1h"
	testRefreshExp = "24h"
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

func existingUser(id, email, password string, active bool) user.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hashStr := string(hash)
	return user.User{
		ID:           id,
		Email:        email,
		PasswordHash: &hashStr,
		FirstName:    "Test",
		LastName:     "User",
		Role:         user.RoleMember,
		IsActive:     active,
		JoinedAt:     time.Now().UTC(),
	}
}

func newTestService(userRepo *fakeUserRepo) auth.AuthService {
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	return NewAuthService(userRepo, jwtService)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", true))
	svc := newTestService(userRepo)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.Greater(t, resp.RefreshTokenExpiresIn, int64(0))
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", true))
	svc := newTestService(userRepo)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrongpassword",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", false))
	svc := newTestService(userRepo)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestService(userRepo)

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:            "Ana Silva",
		Email:           "ana@example.com",
		Password:        "SecurePass123",
		ConfirmPassword: "SecurePass123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	created, err := userRepo.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.FirstName)
	assert.Equal(t, "Silva", created.LastName)
	assert.Equal(t, user.RoleMember, created.Role)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("SecurePass123")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", true))
	svc := newTestService(userRepo)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:            "Ana Again",
		Email:           "ana@example.com",
		Password:        "SecurePass123",
		ConfirmPassword: "SecurePass123",
	})

	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "SecurePass123",
		ConfirmPassword: "Different123",
	})

	assert.Error(t, err)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", true))
	svc := newTestService(userRepo)

	loginResp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", true))
	svc := newTestService(userRepo)

	loginResp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	// Access tokens must not pass as refresh tokens
	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: loginResp.AccessToken,
	})

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_RefreshToken_RevokedAfterLogout(t *testing.T) {
	userRepo := newFakeUserRepo(existingUser("u1", "ana@example.com", "password123", true))
	svc := newTestService(userRepo)

	loginResp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), loginResp.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken,
	})

	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: "not-a-jwt",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
