package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/domain/user"
	"github.com/messhub/messhub-api/internal/pkg/jwt"
	"github.com/messhub/messhub-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	if !user.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.Role(req.Role),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if err == user.ErrEmailAlreadyExists {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("role", req.Role).Msg("user registered")
	return s.generateTokens(u)
}

// Login authenticates a user and issues tokens
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.generateTokens(u)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.generateTokens(u)
}

// Me returns the account for an authenticated user
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *Service) generateTokens(u *user.User) (*AuthResponse, error) {
	access, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refresh, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: toUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
