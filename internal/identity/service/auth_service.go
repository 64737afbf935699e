package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NunoCastro30/TechFlow/internal/config"
	"github.com/NunoCastro30/TechFlow/internal/identity/entity"
	"github.com/NunoCastro30/TechFlow/internal/identity/repository"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserInactive       = errors.New("user is inactive")
)

// AuthService issues JWT access tokens and keeps refresh tokens in redis so
// they can be revoked server-side.
type AuthService struct {
	users *repository.UserRepository
	rdb   *redis.Client
	cfg   config.JWTConfig
}

func NewAuthService(users *repository.UserRepository, rdb *redis.Client, cfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, rdb: rdb, cfg: cfg}
}

type LoginRequest struct {
	StaffNumber int    `json:"staff_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *entity.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	user, err := s.users.FindByStaffNumber(ctx, req.StaffNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.rdb.Get(ctx, refreshKey(refreshToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	// Rotate: the presented refresh token is single use.
	if err := s.rdb.Del(ctx, refreshKey(refreshToken)).Err(); err != nil {
		return nil, fmt.Errorf("redis del: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.rdb.Del(ctx, refreshKey(refreshToken)).Err()
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	claims := middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.FullName(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
			ID:        uuid.New().String(),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.New().String()
	if err := s.rdb.Set(ctx, refreshKey(refresh), user.ID, s.cfg.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
		User:         user,
	}, nil
}

func refreshKey(token string) string {
	return "auth:refresh:" + token
}
