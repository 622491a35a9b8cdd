package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/config"
	"github.com/emureccima/corporate-sub000/internal/core/domain"
	"github.com/emureccima/corporate-sub000/internal/pkg/jwt"
	"github.com/emureccima/corporate-sub000/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = domain.ErrInvalidCredentials
	ErrEmailAlreadyUsed   = fmt.Errorf("%w: email already registered", domain.ErrDuplicateEntry)
	ErrInvalidToken       = domain.ErrTokenInvalid
	ErrTokenExpired       = domain.ErrTokenExpired
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("%w: member account is inactive", domain.ErrForbidden)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
)

// AuthService handles authentication business logic
type AuthService struct {
	memberRepo       repositories.MemberRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		memberRepo:       memberRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.MemberResponse `json:"member"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Register creates a new member account in PENDING status. The member
// cannot transact until an admin confirms the registration payment and
// activates the account.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.memberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, infraErr(err)
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		MemberNo: newMemberNo(),
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hashedPassword,
		Role:     string(domain.RoleMember),
		Status:   string(domain.MemberPending),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, infraErr(err)
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("Member registered: %s (%s)", member.MemberNo, member.Email)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a member
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	member, err := s.memberRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, infraErr(err)
	}

	// INACTIVE is an admin lockout. PENDING members may log in to pay
	// the registration fee and watch their application; the money
	// endpoints enforce ACTIVE separately.
	if member.Status == string(domain.MemberInactive) {
		return nil, ErrAccountInactive
	}

	if !password.Verify(input.Password, member.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("Member logged in: %s", member.MemberNo)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, infraErr(err)
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return nil, storeErr(err, domain.ErrMemberNotFound)
	}
	if member.Status == string(domain.MemberInactive) {
		return nil, ErrAccountInactive
	}

	// Token rotation: old refresh token dies with this exchange
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, infraErr(err)
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	tokenHash := password.HashToken(refreshToken)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return infraErr(err)
	}
	return nil
}

// GetProfile returns the authenticated member's profile
func (s *AuthService) GetProfile(ctx context.Context, memberID uint) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, storeErr(err, domain.ErrMemberNotFound)
	}
	return member.ToResponse(), nil
}

// generateTokens creates an access/refresh token pair
func (s *AuthService) generateTokens(member *models.Member) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		member.ID, member.MemberNo, member.Email, member.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		member.ID, uuid.New().String(),
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken persists the hashed refresh token
func (s *AuthService) storeRefreshToken(ctx context.Context, memberID uint, refreshToken string) error {
	token := &models.RefreshToken{
		MemberID:  memberID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return infraErr(err)
	}
	return nil
}

// newMemberNo generates a human-readable membership number backed by a
// uuid, so concurrent signups cannot collide.
func newMemberNo() string {
	return fmt.Sprintf("MBR-%s", strings.ToUpper(uuid.New().String()[:8]))
}
