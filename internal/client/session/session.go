// Package session хранит текущего пользователя клиента и синхронизирует его
// с локальным хранилищем.
//
// При старте Init восстанавливает пользователя из хранилища без обращения к
// серверу. Login и Register вызывают сервер и сохраняют токен и профиль,
// Logout только очищает локальное состояние. Подлинность сохранённого
// профиля проверяет сервер при каждом запросе с токеном.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/blogapp/internal/client/api"
	"github.com/magabrotheeeer/blogapp/internal/lib/apperr"
	"github.com/magabrotheeeer/blogapp/internal/lib/result"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
	"github.com/magabrotheeeer/blogapp/internal/models"
)

// Ключи локального хранилища.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Сообщения по умолчанию, если сервер не прислал своего.
const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
)

// Store — локальное хранилище ключ-значение.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// API — вызовы сервера, от которых зависит сессия.
type API interface {
	Login(ctx context.Context, email, password string) (*models.AuthPayload, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthPayload, error)
}

// Session — состояние аутентификации клиента. Безопасна для конкурентного использования.
type Session struct {
	store Store
	api   API
	log   *slog.Logger

	mu      sync.RWMutex
	user    *models.Profile
	token   string
	loading bool

	ready     chan struct{}
	readyOnce sync.Once
}

// New создает сессию в состоянии загрузки. До вызова Init пользователь неизвестен.
func New(store Store, api API, log *slog.Logger) *Session {
	return &Session{
		store:   store,
		api:     api,
		log:     log,
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Init восстанавливает пользователя из хранилища. Повреждённый профиль
// удаляется вместе с токеном. После Init Loading возвращает false при любом исходе.
func (s *Session) Init(ctx context.Context) {
	const op = "session.Init"
	log := s.log.With(slog.String("op", op))

	defer s.markReady()

	token, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		log.Warn("failed to read token", sl.Err(err))
		return
	}
	rawUser, err := s.store.Get(ctx, KeyUser)
	if err != nil {
		log.Warn("failed to read user", sl.Err(err))
		return
	}
	if len(token) == 0 || len(rawUser) == 0 {
		return
	}

	var user models.Profile
	if err := json.Unmarshal(rawUser, &user); err != nil {
		log.Warn("cached user is corrupted, discarding session", sl.Err(err))
		if err := s.store.Delete(ctx, KeyToken, KeyUser); err != nil {
			log.Warn("failed to clear corrupted session", sl.Err(err))
		}
		return
	}

	s.mu.Lock()
	s.user = &user
	s.token = string(token)
	s.mu.Unlock()
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		close(s.ready)
	})
}

// Login входит по email и паролю и сохраняет сессию.
func (s *Session) Login(ctx context.Context, email, password string) result.Result[models.Profile] {
	payload, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.fail(err, MsgLoginFailed)
	}
	return s.adopt(ctx, payload, MsgLoginFailed)
}

// Register создает пользователя и сохраняет сессию.
func (s *Session) Register(ctx context.Context, name, email, password string) result.Result[models.Profile] {
	payload, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return s.fail(err, MsgRegistrationFailed)
	}
	return s.adopt(ctx, payload, MsgRegistrationFailed)
}

// Logout удаляет сессию из хранилища и памяти. Сервер не вызывается.
func (s *Session) Logout(ctx context.Context) {
	if err := s.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		s.log.Warn("failed to clear stored session", slog.String("op", "session.Logout"), sl.Err(err))
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// User возвращает копию текущего профиля или nil, если вход не выполнен.
func (s *Session) User() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token возвращает токен текущей сессии.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading сообщает, что Init ещё не завершён.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Ready закрывается, когда Init завершён.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

func (s *Session) adopt(ctx context.Context, payload *models.AuthPayload, fallback string) result.Result[models.Profile] {
	rawUser, err := json.Marshal(payload.User)
	if err != nil {
		return result.FromError[models.Profile](err, fallback)
	}

	// состояние в памяти обновляется, даже если запись на диск не удалась
	if err := s.store.Set(ctx, KeyToken, []byte(payload.Token)); err != nil {
		s.log.Warn("failed to persist token", sl.Err(err))
	} else if err := s.store.Set(ctx, KeyUser, rawUser); err != nil {
		s.log.Warn("failed to persist user", sl.Err(err))
	}

	user := payload.User
	s.mu.Lock()
	s.user = &user
	s.token = payload.Token
	s.mu.Unlock()

	return result.OK(user)
}

func (s *Session) fail(err error, fallback string) result.Result[models.Profile] {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return result.Fail[models.Profile](apperr.KindAuth, msg)
	}
	s.log.Warn("auth request failed", sl.Err(err))
	return result.Fail[models.Profile](apperr.KindUnknown, fallback)
}
