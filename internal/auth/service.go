// Package auth handles sign-up, sign-in, sign-out and password changes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lifesync/internal/models"
	"lifesync/pkg/logger"
)

const MinPasswordLength = 6

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

var (
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrWeakPassword       = fmt.Errorf("password should be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionEnded       = errors.New("session has ended, please sign in again")
)

type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Grant is handed to the client after a successful sign-up or sign-in.
type Grant struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID      string
	SessionID   string
	Email       string
	DisplayName string
}

type Service struct {
	store      Store
	tokens     *Tokens
	ttl        time.Duration
	bcryptCost int
	logger     *logger.Logger
	now        func() time.Time
}

func NewService(store Store, tokens *Tokens, ttl time.Duration, l *logger.Logger) *Service {
	return &Service{
		store:      store,
		tokens:     tokens,
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		logger:     l,
		now:        time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *Service) hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// SignUp creates the account together with a profile holding default values.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*Grant, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user signed up", "user_id", user.ID)
	return s.open(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Infow("user signed in", "user_id", user.ID)
	return s.open(ctx, user)
}

// open starts a session and issues its token.
func (s *Service) open(ctx context.Context, user *models.User) (*Grant, error) {
	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, session.ID, now, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &Grant{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// SignOut ends the session; its token stops authenticating immediately.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Infow("password changed", "user_id", userID)
	return nil
}

// Authenticate resolves a bearer token to the signed-in user.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrSessionEnded
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != claims.Subject || session.Expired(s.now()) {
		return nil, ErrSessionEnded
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrSessionEnded
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &Identity{
		UserID:      user.ID,
		SessionID:   session.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}
