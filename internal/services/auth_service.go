package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"tienda/internal/apperrors"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and the stateless token lifecycle.
// Tokens are self-contained HS256 JWTs; nothing about them is persisted.
type AuthService struct {
	userRepo   repositories.UserRepository
	mqClient   *rabbitmq.Client // may be nil, events are best effort
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, mqClient *rabbitmq.Client, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		mqClient:   mqClient,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// Register creates a new user with the default role and returns a freshly
// issued token for it. The existence check races with a concurrent insert;
// the store's unique index on name is the authoritative guard and surfaces
// here as the same conflict error.
func (s *AuthService) Register(name, password string) (string, error) {
	exists, err := s.userRepo.ExistsByName(name)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if exists {
		return "", apperrors.UserAlreadyExists(name)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Name:     name,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return "", apperrors.UserAlreadyExists(name)
		}
		return "", apperrors.Internal(fmt.Errorf("failed to register user: %w", err))
	}

	if s.mqClient != nil {
		event := map[string]interface{}{"user_id": user.ID, "name": user.Name, "role": user.Role}
		if err := s.mqClient.PublishEvent("user.registered", event); err != nil {
			log.Printf("Warning: Failed to publish user registered event for %s: %v", user.Name, err)
		}
	}

	return s.IssueToken(user.Name)
}

// Login verifies the credentials and returns a freshly issued token. Unknown
// name and wrong password produce distinct error categories but the same
// user-facing message.
func (s *AuthService) Login(name, password string) (string, error) {
	user, err := s.userRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", apperrors.UserNotRegistered()
		}
		return "", apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.InvalidCredentials()
	}

	return s.IssueToken(user.Name)
}

// IssueToken produces a signed token whose subject is the user name, expiring
// after the configured duration.
func (s *AuthService) IssueToken(name string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": name,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenDurat).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return tokenString, nil
}

// ExtractSubject returns the subject embedded in a structurally valid,
// correctly signed token, or "" for anything else. Malformed and foreign
// tokens are a normal case on a public endpoint, so this never errors.
func (s *AuthService) ExtractSubject(tokenString string) string {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// IsTokenValid reports whether the token is correctly signed, unexpired and
// issued for exactly this user. The subject match stops a token issued for
// one user from being replayed against another user's record.
func (s *AuthService) IsTokenValid(tokenString string, user *models.User) bool {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return false
	}
	// jwt-go already rejects expired tokens in Parse, but the exp claim is
	// required here: a token without one never validates.
	if _, ok := claims["exp"]; !ok {
		return false
	}
	sub, _ := claims["sub"].(string)
	return sub == user.Name
}

// ResolveUser loads the full user record for a token subject.
func (s *AuthService) ResolveUser(name string) (*models.User, error) {
	user, err := s.userRepo.FindByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", name, err)
	}
	return user, nil
}

func (s *AuthService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
