package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/store"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, u *store.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = "user-1"
	}
	return args.Error(0)
}

func (m *MockUsers) ByUsername(ctx context.Context, username string) (store.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(store.User), args.Error(1)
}

func newTestService(users UserRepository) *Service {
	return NewService(users, NewTokens([]byte("test-key"), time.Hour))
}

// -----------------------------------------------------------------------------
// Passwords
// -----------------------------------------------------------------------------

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

// -----------------------------------------------------------------------------
// Tokens
// -----------------------------------------------------------------------------

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("k"), time.Hour)

	raw, expires, err := tokens.Issue(Identity{UserID: "u1", Username: "alice"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", Username: "alice"}, id)
}

func TestTokens_Rejections(t *testing.T) {
	tokens := NewTokens([]byte("k"), time.Hour)
	raw, _, err := tokens.Issue(Identity{UserID: "u1", Username: "alice"})
	require.NoError(t, err)

	t.Run("Wrong key", func(t *testing.T) {
		_, err := NewTokens([]byte("other"), time.Hour).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		late := NewTokens([]byte("k"), time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tokens.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

// -----------------------------------------------------------------------------
// Signing key
// -----------------------------------------------------------------------------

func TestSigningKey_Explicit(t *testing.T) {
	key, err := SigningKey("explicit", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("explicit"), key)
}

func TestSigningKey_KeyringPersistence(t *testing.T) {
	keyring.MockInit()

	first, err := SigningKey("", OSKeyring{})
	require.NoError(t, err)
	assert.Len(t, first, config.SigningKeyBytes)

	stored, err := keyring.Get(config.KeyringService, config.KeyringUser)
	require.NoError(t, err)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(first), stored)

	second, err := SigningKey("", OSKeyring{})
	require.NoError(t, err)
	assert.Equal(t, first, second, "the stored key is reused on the next start")
}

func TestSigningKey_KeyringFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("no keyring daemon"))

	key, err := SigningKey("", OSKeyring{})
	require.NoError(t, err, "a broken keyring must not prevent startup")
	assert.Len(t, key, config.SigningKeyBytes)
}

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"Username too short", RegisterInput{"a", "pw", "pw"}, ErrUsernameLength},
		{"Username too long", RegisterInput{"abcdefghijklmnopqrstu", "pw", "pw"}, ErrUsernameLength},
		{"Password too short", RegisterInput{"alice", "p", "p"}, ErrPasswordLength},
		{"Password too long", RegisterInput{"alice", "abcdefghijklmnopqrstu", "abcdefghijklmnopqrstu"}, ErrPasswordLength},
		{"Passwords differ", RegisterInput{"alice", "pw1", "pw2"}, ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUsers)
			_, err := newTestService(users).Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUsers)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *store.User) bool {
		return u.Username == "alice" && CheckPassword(u.PasswordHash, "pw") == nil
	})).Return(nil)

	id, err := newTestService(users).Register(context.Background(), RegisterInput{" alice ", "pw", "pw"})
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", Username: "alice"}, id)
	users.AssertExpectations(t)
}

func TestRegister_Taken(t *testing.T) {
	users := new(MockUsers)
	users.On("Create", mock.Anything, mock.Anything).Return(store.ErrConflict)

	_, err := newTestService(users).Register(context.Background(), RegisterInput{"alice", "pw", "pw"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	users := new(MockUsers)
	users.On("ByUsername", mock.Anything, "alice").Return(store.User{ID: "u1", Username: "alice", PasswordHash: hash}, nil)
	users.On("ByUsername", mock.Anything, "bob").Return(store.User{}, store.ErrNotFound)
	svc := newTestService(users)

	session, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.NotEmpty(t, session.Token)

	id, err := svc.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)

	_, err = svc.Login(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "bob", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown users are indistinguishable from bad passwords")
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Username: "alice"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
}
