package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/auth"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService. New accounts start as regular members;
// role elevation is an admin operation.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	// Check user already exist or not
	existing, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}
	if existing.ID != "" {
		return auth.TokenResponse{}, auth.ErrEmailTaken
	}

	// Hash the password before storing
	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	firstName, lastName := splitName(req.Name)
	newUser := user.User{
		Email:        req.Email,
		PasswordHash: &hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         user.RoleMember,
		IsActive:     true,
		JoinedAt:     time.Now().UTC(),
	}
	if req.Phone != "" {
		newUser.Phone = &req.Phone
	}

	newUser, err = a.UserRepository.Create(ctx, newUser)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(newUser.ID, newUser.Email, newUser.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(newUser.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if !a.Service.IsTokenRevoked(refreshToken) {
		a.Service.RevokeToken(refreshToken)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Verify JWT signature and expiry
	token, err := jwtauth.VerifyToken(a.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check token type is "refresh"
	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Check revocation
	if a.Service.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 4. Get user
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrUserNotFound
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	// 5. Generate new access token
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

func splitName(full string) (first, last string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
