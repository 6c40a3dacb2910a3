// Package api — HTTP-клиент эндпоинтов /api/auth сервера blogapp.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/magabrotheeeer/blogapp/internal/models"
)

const requestTimeout = 10 * time.Second

// Error — отказ, о котором сервер сообщил в ответе с success=false.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client вызывает сервер аутентификации. Cookie сервера сохраняются в jar.
type Client struct {
	baseURL string
	http    *http.Client
}

// New создает клиента для сервера по адресу baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
	}, nil
}

// Register создает пользователя и возвращает токен и профиль.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.AuthPayload, error) {
	var payload models.AuthPayload
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Login выполняет вход и возвращает токен и профиль.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	var payload models.AuthPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout просит сервер удалить cookie сессии.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", "", nil, nil)
}

// Me возвращает профиль владельца token.
func (c *Client) Me(ctx context.Context, token string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// do отправляет запрос и раскладывает конверт ответа. dst может быть nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, dst any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response from %s (HTTP %d): %w", path, resp.StatusCode, err)
	}
	if !env.Success {
		return &Error{Message: env.Message}
	}
	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return fmt.Errorf("decoding data from %s: %w", path, err)
		}
	}
	return nil
}
