package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainuser "github.com/alanyang/leadroute/internal/domain/user"
	portuser "github.com/alanyang/leadroute/internal/port/user"
)

const (
	tokenTTL       = 24 * time.Hour
	minPasswordLen = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service issues and verifies owner sessions.
type Service struct {
	repo   portuser.Repository
	secret []byte
}

func NewService(repo portuser.Repository, secret []byte) *Service {
	return &Service{repo: repo, secret: secret}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (domainuser.User, error) {
	if len(password) < minPasswordLen {
		return domainuser.User{}, ErrWeakPassword
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return domainuser.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domainuser.User{}, fmt.Errorf("hashing password: %w", err)
	}

	created, err := s.repo.Create(ctx, domainuser.New(name, email, string(hash)))
	if err != nil {
		return domainuser.User{}, fmt.Errorf("register user: %w", err)
	}
	return created, nil
}

// Login verifies credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, domainuser.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", domainuser.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domainuser.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domainuser.User{}, fmt.Errorf("signing token: %w", err)
	}
	return token, u, nil
}

// VerifyToken validates a session token and returns the owner ID it carries.
func (s *Service) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domainuser.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
