// Package auth registers users, checks their passwords and issues the session
// tokens that carry their identity between requests.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/store"
)

var (
	ErrInvalidCredentials = errors.New(config.ErrCredentials)
	ErrInvalidToken       = errors.New(config.ErrTokenInvalid)
	ErrUsernameTaken      = errors.New(config.ErrUsernameTaken)
	ErrUsernameLength     = errors.New(config.ErrUsernameLength)
	ErrPasswordLength     = errors.New(config.ErrPasswordLength)
	ErrPasswordMismatch   = errors.New(config.ErrPasswordMismatch)
)

// UserRepository is the persistence the service needs.
type UserRepository interface {
	Create(ctx context.Context, u *store.User) error
	ByUsername(ctx context.Context, username string) (store.User, error)
}

// Service implements registration and login.
type Service struct {
	users  UserRepository
	tokens *Tokens
}

// NewService wires the user repository and token issuer.
func NewService(users UserRepository, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterInput mirrors the sign-up form.
type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register validates the form and creates the account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	username := strings.TrimSpace(in.Username)
	if !lengthBetween(username, config.UsernameMinLen, config.UsernameMaxLen) {
		return Identity{}, ErrUsernameLength
	}
	if !lengthBetween(in.Password, config.PasswordMinLen, config.PasswordMaxLen) {
		return Identity{}, ErrPasswordLength
	}
	if in.Password != in.ConfirmPassword {
		return Identity{}, ErrPasswordMismatch
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Identity{}, err
	}

	u := &store.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Identity{}, ErrUsernameTaken
		}
		return Identity{}, err
	}

	slog.InfoContext(ctx, config.MsgUserCreated,
		config.LogKeyComponent, config.CompAuth,
		config.LogKeyUserID, u.ID,
	)
	return Identity{UserID: u.ID, Username: u.Username}, nil
}

// Session is a freshly issued login.
type Session struct {
	Identity
	Token     string
	ExpiresAt int64
}

// Login checks the credentials and issues a session token.
// Unknown users and wrong passwords are both reported as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logFailure(ctx, username)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logFailure(ctx, username)
		}
		return Session{}, err
	}

	id := Identity{UserID: u.ID, Username: u.Username}
	token, expires, err := s.tokens.Issue(id)
	if err != nil {
		return Session{}, err
	}
	return Session{Identity: id, Token: token, ExpiresAt: expires.Unix()}, nil
}

// Authenticate resolves a session token into an identity.
func (s *Service) Authenticate(token string) (Identity, error) {
	return s.tokens.Verify(token)
}

func (s *Service) logFailure(ctx context.Context, username string) {
	slog.WarnContext(ctx, config.MsgLoginFailed,
		config.LogKeyComponent, config.CompAuth,
		config.LogKeyUser, username,
	)
}

func lengthBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
