package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blogapp/internal/client/api"
	"github.com/magabrotheeeer/blogapp/internal/client/logs"
	"github.com/magabrotheeeer/blogapp/internal/client/session"
	"github.com/magabrotheeeer/blogapp/internal/client/store"
	"github.com/magabrotheeeer/blogapp/internal/models"
)

type ServerMock struct {
	mock.Mock
}

func (m *ServerMock) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*models.AuthPayload)
	return resp, args.Error(1)
}

func (m *ServerMock) Register(ctx context.Context, name, email, password string) (*models.AuthPayload, error) {
	args := m.Called(ctx, name, email, password)
	resp, _ := args.Get(0).(*models.AuthPayload)
	return resp, args.Error(1)
}

func (m *ServerMock) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *ServerMock) Me(ctx context.Context, token string) (*models.Profile, error) {
	args := m.Called(ctx, token)
	resp, _ := args.Get(0).(*models.Profile)
	return resp, args.Error(1)
}

var alice = models.Profile{ID: "user-1", Name: "alice", Email: "alice@example.com"}

type harness struct {
	store  *store.Store
	server *ServerMock
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return &harness{store: st, server: new(ServerMock)}
}

// run выполняет одну команду в новом процессе CLI поверх общего хранилища.
func (h *harness) run(input string, args ...string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.New(h.store, h.server, logger)
	app := NewApp(sess, h.server, logs.NewWithWriters(&h.out, &h.errOut), strings.NewReader(input), io.Discard)
	return app.Execute(context.Background(), args)
}

func TestCLI_RegisterWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	h.server.On("Register", mock.Anything, "alice", "alice@example.com", "pw").
		Return(&models.AuthPayload{Token: "tok", User: alice}, nil).Once()
	h.server.On("Me", mock.Anything, "tok").Return(&alice, nil).Once()
	h.server.On("Logout", mock.Anything).Return(nil).Once()

	require.NoError(t, h.run("", "register", "--name", "alice", "--email", "alice@example.com", "--password", "pw"))
	assert.Contains(t, h.out.String(), "Registered as alice")

	h.out.Reset()
	require.NoError(t, h.run("", "whoami"))
	assert.Contains(t, h.out.String(), "Email: alice@example.com")

	h.out.Reset()
	require.NoError(t, h.run("", "logout"))
	assert.Contains(t, h.out.String(), "Logged out")

	h.out.Reset()
	require.NoError(t, h.run("", "whoami"))
	assert.Contains(t, h.out.String(), "Not logged in")

	h.server.AssertExpectations(t)
}

func TestCLI_LoginPromptsForMissingFields(t *testing.T) {
	h := newHarness(t)

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	defer func() { readPassword = orig }()

	h.server.On("Login", mock.Anything, "alice@example.com", "secret").
		Return(&models.AuthPayload{Token: "tok", User: alice}, nil).Once()

	require.NoError(t, h.run("alice@example.com\n", "login"))
	assert.Contains(t, h.out.String(), "Logged in as alice")
	h.server.AssertExpectations(t)
}

func TestCLI_LoginFailureReturnsServerMessage(t *testing.T) {
	h := newHarness(t)
	h.server.On("Login", mock.Anything, "alice@example.com", "bad").
		Return(nil, &api.Error{Message: "Invalid password"}).Once()

	err := h.run("", "login", "--email", "alice@example.com", "--password", "bad")
	assert.EqualError(t, err, "Invalid password")
}

func TestCLI_WhoamiWithRevokedToken(t *testing.T) {
	h := newHarness(t)
	h.server.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.AuthPayload{Token: "stale", User: alice}, nil).Once()
	h.server.On("Me", mock.Anything, "stale").
		Return(nil, &api.Error{Message: "invalid or expired token"}).Once()

	require.NoError(t, h.run("", "login", "--email", "alice@example.com", "--password", "pw"))

	err := h.run("", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired token")

	token, err := h.store.Get(context.Background(), session.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestCLI_LogoutToleratesServerFailure(t *testing.T) {
	h := newHarness(t)
	h.server.On("Logout", mock.Anything).Return(errors.New("connection refused")).Once()

	require.NoError(t, h.run("", "logout", "-v"))
	assert.Contains(t, h.out.String(), "[verbose] server logout failed: connection refused")
	assert.Contains(t, h.out.String(), "Logged out")
}
