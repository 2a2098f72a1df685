package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/marco0antonio0/back-makeapi/internal/apierrors"
	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
)

// TokenDuration is how long an issued bearer token stays valid.
const TokenDuration = 7 * 24 * time.Hour

const minPasswordLen = 8

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
}

// AuthService registers users and issues/validates bearer tokens.
type AuthService struct {
	users  UserStore
	secret []byte
}

// NewAuthService creates an AuthService signing tokens with secret.
func NewAuthService(users UserStore, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret)}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload for authenticating.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account with a bcrypt-hashed password and returns it
// together with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	var violations []query.Violation
	if strings.TrimSpace(in.Username) == "" {
		violations = append(violations, query.Violation{Field: "username", Message: "username is required"})
	}
	if !strings.Contains(in.Email, "@") {
		violations = append(violations, query.Violation{Field: "email", Message: "a valid email is required"})
	}
	if len(in.Password) < minPasswordLen {
		violations = append(violations, query.Violation{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(violations) > 0 {
		return nil, "", violationError(violations)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, in.Username, in.Email, string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apierrors.Unauthorized("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, "", apierrors.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UserFromToken resolves a raw bearer token to the account it names.
func (s *AuthService) UserFromToken(ctx context.Context, raw string) (*models.User, error) {
	id, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    "makeapi",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a token and returns its subject (the user id).
func (s *AuthService) ParseToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apierrors.Unauthorized("invalid or expired token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apierrors.Unauthorized("invalid or expired token")
	}
	return claims.Subject, nil
}
