// Package auth covers the password identity policy: bcrypt credentials, JWT
// session tokens and the session bootstrap state machine.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"todoweb/internal/model"
	"todoweb/internal/repository"
	"todoweb/internal/validate"
)

var (
	// ErrInvalidCredentials reports a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken reports a registration against an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken reports an expired, malformed or forged session token.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the JWT payload of a session token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenIssuer signs and parses session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue returns a signed token for the user, valid for the configured TTL.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Service implements the explicit registration and login flow of the strict
// identity policy.
type Service struct {
	users  repository.UserRepository
	issuer *TokenIssuer
}

func NewService(users repository.UserRepository, issuer *TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Register creates an account. Name and email are trimmed once here; lookups
// afterwards are exact matches. Missing fields are a validation failure, not
// an infrastructure one.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var errs validate.FieldErrors
	if name == "" {
		errs = append(errs, validate.FieldError{Field: "name", Message: "name is required"})
	}
	if email == "" {
		errs = append(errs, validate.FieldError{Field: "email", Message: "email is required"})
	}
	if password == "" {
		errs = append(errs, validate.FieldError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		// Free to register.
	default:
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "", nil, ErrInvalidCredentials
	case err != nil:
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a session token back to its user.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}
