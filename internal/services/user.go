package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/repository"
	"love-journal-backend/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	minPasswordLength = 6
)

// UserService handles registration, login, sessions and profiles
type UserService struct {
	users      UserStore
	jwtSecret  []byte
	sessionTTL time.Duration
	now        Clock
}

// NewUserService creates a new user service
func NewUserService(users UserStore, jwtSecret string, sessionTTL time.Duration, now Clock) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		now:        now,
	}
}

// SessionClaims are the claims carried by a session token
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ProfileUpdate carries the optional profile fields to change
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Image  *string
	Gender *models.Gender
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validation.Var(email, "required,email") == nil
}

// GenerateJWT issues a session token for a user
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a session token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("user_id not found in token")
	}
	return claims.UserID, nil
}

// SessionTTL returns how long issued tokens stay valid
func (s *UserService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates a user with a bcrypt password hash and returns it with a session token
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, "", Validation("Name is required")
	}
	if !validEmail(email) {
		return nil, "", Validation("Invalid email")
	}
	if len(password) < minPasswordLength {
		return nil, "", Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: &hashed,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", storeError(err, nil)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	return user, token, nil
}

// Login checks credentials and returns the user with a session token
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", storeError(err, ErrInvalidCredential)
	}
	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredential
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile returns the caller's user record
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile applies the set fields of upd to the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, Validation("Name cannot be empty")
		}
		user.Name = name
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if !validEmail(email) {
			return nil, Validation("Invalid email")
		}
		user.Email = email
	}
	if upd.Gender != nil {
		switch *upd.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
			user.Gender = upd.Gender
		default:
			return nil, Validation("Invalid gender")
		}
	}
	if upd.Image != nil {
		user.Image = upd.Image
		if *upd.Image == "" {
			user.Image = nil
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storeError(err, ErrUserNotFound)
	}
	return user, nil
}

// LookupUsers returns the users with the given IDs, keyed by ID
func (s *UserService) LookupUsers(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return users, nil
}
