package user

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

// Claims are the JWT claims issued on login.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Config holds user service configuration
type Config struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// Service implements ports.UserService: account registration, login and
// token validation.
type Service struct {
	config Config
	repo   ports.UserRepository
	log    *zap.Logger
}

var _ ports.UserService = (*Service)(nil)

// NewService creates a new user service
func NewService(config Config, repo ports.UserRepository, log *zap.Logger) *Service {
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}
	return &Service{
		config: config,
		repo:   repo,
		log:    log,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Msg: "email and password are required"}
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, &domain.PreconditionError{Msg: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("email", email),
	)

	return user, nil
}

// Login verifies the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return "", &domain.ValidationError{Msg: "invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", &domain.ValidationError{Msg: "invalid credentials"}
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		s.log.Error("failed to sign token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses a token and loads the account it was issued for.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, &domain.ValidationError{Msg: "invalid token"}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, &domain.ValidationError{Msg: "invalid token"}
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil || user == nil {
		return nil, &domain.ValidationError{Msg: "unknown user"}
	}
	return user, nil
}
