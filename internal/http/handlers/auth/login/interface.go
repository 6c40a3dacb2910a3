package login

import (
	"context"

	services "github.com/magabrotheeeer/blogapp/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*services.Session, error)
}
