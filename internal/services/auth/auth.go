// Package services содержит логику бизнес-уровня аутентификации:
// регистрацию, вход, проверку токена сессии и получение профиля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/blogapp/internal/lib/apperr"
	"github.com/magabrotheeeer/blogapp/internal/lib/jwt"
	"github.com/magabrotheeeer/blogapp/internal/lib/password"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
	"github.com/magabrotheeeer/blogapp/internal/metrics"
	"github.com/magabrotheeeer/blogapp/internal/models"
	"github.com/magabrotheeeer/blogapp/internal/storage"
)

// SessionTTL — фиксированное время жизни токена сессии. Токен не продлевается.
const SessionTTL = 7 * 24 * time.Hour

// Сообщения об ошибках, которые видит пользователь.
const (
	MsgFieldsRequired  = "All fields are required"
	MsgUserExists      = "User already exists"
	MsgInvalidEmail    = "Invalid email"
	MsgInvalidPassword = "Invalid password"
	MsgPasswordTooLong = "Password is too long"
	MsgInvalidToken    = "Invalid or expired token"
	MsgUserNotFound    = "User not found"
	MsgStorageFailure  = "Service temporarily unavailable"
)

const profileCacheKeyBase = "profile:"

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по ID или storage.ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ProfileCache описывает кэш профилей пользователей.
type ProfileCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, profile models.Profile) error
}

// Session — выданная пользователю сессия.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      models.Profile
}

// AuthService отвечает за регистрацию, вход и проверку токенов сессии.
type AuthService struct {
	log        *slog.Logger
	users      UserRepository
	jwtMaker   jwt.Maker
	cache      ProfileCache
	profileTTL time.Duration
	events     EventPublisher
	metrics    *metrics.Metrics
}

// Option настраивает необязательные зависимости AuthService.
type Option func(*AuthService)

// WithProfileCache включает кэширование профилей на ttl.
func WithProfileCache(cache ProfileCache, ttl time.Duration) Option {
	return func(s *AuthService) {
		s.cache = cache
		s.profileTTL = ttl
	}
}

// WithEvents задаёт публикатор доменных событий.
func WithEvents(events EventPublisher) Option {
	return func(s *AuthService) {
		s.events = events
	}
}

// WithMetrics задаёт метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AuthService) {
		s.metrics = m
	}
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(log *slog.Logger, users UserRepository, jwtMaker jwt.Maker, opts ...Option) *AuthService {
	s := &AuthService{
		log:      log,
		users:    users,
		jwtMaker: jwtMaker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register создает пользователя с хэшированным паролем и выдаёт ему сессию.
//
// Пустые поля дают ошибку валидации без обращения к хранилищу,
// занятый email — ошибку конфликта без записи.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*Session, error) {
	const op = "services.auth.Register"

	sess, err := s.register(ctx, name, email, rawPassword)
	s.observe("register", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

func (s *AuthService) register(ctx context.Context, name, email, rawPassword string) (*Session, error) {
	if blank(name) || blank(email) || blank(rawPassword) {
		return nil, apperr.Validation(MsgFieldsRequired)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict(MsgUserExists)
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, apperr.Storage(MsgStorageFailure, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, apperr.Validation(MsgPasswordTooLong)
		}
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	user.ID, err = s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return nil, apperr.Conflict(MsgUserExists)
		}
		return nil, apperr.Storage(MsgStorageFailure, err)
	}

	sess, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishUserRegistered(ctx, sess.User); err != nil {
			s.log.Warn("failed to publish user registered event",
				slog.String("user_id", user.ID), sl.Err(err))
		}
	}
	return sess, nil
}

// Login проверяет пароль пользователя и выдаёт новую сессию.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*Session, error) {
	const op = "services.auth.Login"

	sess, err := s.login(ctx, email, rawPassword)
	s.observe("login", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

func (s *AuthService) login(ctx context.Context, email, rawPassword string) (*Session, error) {
	if blank(email) || blank(rawPassword) {
		return nil, apperr.Validation(MsgFieldsRequired)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.Auth(MsgInvalidEmail)
		}
		return nil, apperr.Storage(MsgStorageFailure, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, apperr.Auth(MsgInvalidPassword)
	}
	return s.issue(*user)
}

// ValidateToken проверяет подпись и срок действия токена и возвращает ID пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (string, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, &apperr.Error{Kind: apperr.KindAuth, Message: MsgInvalidToken, Err: err})
	}
	return claims.UserID(), nil
}

// Profile возвращает профиль пользователя, по возможности из кэша.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "services.auth.Profile"
	key := profileCacheKeyBase + userID

	if s.cache != nil {
		var cached models.Profile
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("profile cache read failed", slog.String("user_id", userID), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Auth(MsgUserNotFound))
		}
		return nil, fmt.Errorf("%s: %w", op, apperr.Storage(MsgStorageFailure, err))
	}

	profile := user.Profile()
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, profile, s.profileTTL); err != nil {
			s.log.Warn("profile cache write failed", slog.String("user_id", userID), sl.Err(err))
		}
	}
	return &profile, nil
}

func (s *AuthService) issue(user models.User) (*Session, error) {
	token, expiresAt, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Profile(),
	}, nil
}

func (s *AuthService) observe(op string, err error) {
	if err == nil {
		s.metrics.ObserveAuth(op, metrics.OutcomeSuccess)
		return
	}
	s.metrics.ObserveAuth(op, apperr.KindOf(err).String())
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
