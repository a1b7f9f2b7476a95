package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/leavedesk/leave-backend-go/internal/domain/department"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
	"github.com/leavedesk/leave-backend-go/internal/pkg/jwt"
)

type Service struct {
	user.UserRepository
	department.DepartmentRepository
	jwt jwt.Service
}

func NewService(userRepository user.UserRepository, departmentRepository department.DepartmentRepository, jwtService jwt.Service) *Service {
	return &Service{
		UserRepository:       userRepository,
		DepartmentRepository: departmentRepository,
		jwt:                  jwtService,
	}
}

// Register creates an account. The department, when given, must exist;
// duplicate emails surface as user.ErrEmailExists from the repository.
func (s *Service) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	if req.DepartmentID != nil {
		if _, err := s.DepartmentRepository.GetByID(ctx, *req.DepartmentID); err != nil {
			return user.User{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.Role(req.Role),
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return user.User{}, err
	}

	return created, nil
}

func (s *Service) Login(ctx context.Context, req user.LoginRequest) (user.LoginResponse, error) {
	u, err := s.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.LoginResponse{}, user.ErrInvalidCredentials
		}
		return user.LoginResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return user.LoginResponse{}, user.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Role, u.DepartmentID)
	if err != nil {
		return user.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return user.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return user.LoginResponse{
		AccessToken:      accessToken,
		ExpiresAt:        expiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
		User:             user.ToUserResponse(u),
	}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a fresh access
// token. Any verification failure collapses to ErrInvalidToken so the
// response never hints at which check tripped.
func (s *Service) Refresh(ctx context.Context, req user.RefreshTokenRequest) (user.AccessTokenResponse, error) {
	token, err := jwtauth.VerifyToken(s.jwt.JWTAuth(), req.RefreshToken)
	if err != nil {
		return user.AccessTokenResponse{}, user.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return user.AccessTokenResponse{}, user.ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return user.AccessTokenResponse{}, user.ErrInvalidToken
	}
	if s.jwt.IsTokenRevoked(req.RefreshToken) {
		return user.AccessTokenResponse{}, user.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.AccessTokenResponse{}, user.ErrInvalidToken
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Role, u.DepartmentID)
	if err != nil {
		return user.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return user.AccessTokenResponse{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// Logout revokes the presented access token for the rest of its lifetime.
func (s *Service) Logout(_ context.Context, token string) {
	s.jwt.RevokeToken(token)
}

func (s *Service) Me(ctx context.Context, userID string) (user.User, error) {
	return s.UserRepository.GetByID(ctx, userID)
}
