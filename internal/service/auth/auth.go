package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	jwtMiddleware "github.com/samirwankhede/hotel-insights/internal/middleware"
	"github.com/samirwankhede/hotel-insights/internal/store/users"
)

const TokenTTL = 24 * time.Hour

// UserStore is the slice of the admin user repository the auth service reads.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type AuthService struct {
	log    *zap.Logger
	users  UserStore
	secret string
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string    `json:"token"`
	User    UserInfo  `json:"user"`
	Expires time.Time `json:"expires"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var ErrInvalidCredentials = errors.New("invalid credentials")

func NewAuthService(log *zap.Logger, users UserStore, secret string) *AuthService {
	return &AuthService{log: log, users: users, secret: secret}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	// Unknown users and wrong passwords look the same to the caller.
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	isAdmin := user.Role == users.RoleAdmin
	token, err := jwtMiddleware.Issue(s.secret, user.ID, isAdmin, TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	s.log.Info("Admin login", zap.String("user_id", user.ID))

	return &LoginResponse{
		Token:   token,
		User:    UserInfo{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		Expires: time.Now().Add(TokenTTL),
	}, nil
}

// IsAdmin reports whether the user still exists with the admin role.
func (s *AuthService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Role == users.RoleAdmin, nil
}
