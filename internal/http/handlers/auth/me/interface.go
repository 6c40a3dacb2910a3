package me

import (
	"context"

	"github.com/magabrotheeeer/blogapp/internal/models"
)

// Service возвращает профиль пользователя по его ID.
type Service interface {
	Profile(ctx context.Context, userID string) (*models.Profile, error)
}
