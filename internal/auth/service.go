package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
}

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Options struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

func NewService(repo Repository, opts Options) *Service {
	return &Service{
		repo:   repo,
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		issuer: opts.Issuer,
		now:    time.Now,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Username:     strings.ToLower(strings.TrimSpace(username)),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Bootstrap creates the admin account when no user holds username yet.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	_, err := s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.Register(ctx, username, password, RoleAdmin)
	if errors.Is(err, ErrUserExists) {
		return nil
	}

	return err
}

// Login checks the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}

	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Issue signs an HS256 token for user.
func (s *Service) Issue(user *User) (string, error) {
	now := s.now()

	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

// Parse validates a token and returns its claims.
func (s *Service) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
