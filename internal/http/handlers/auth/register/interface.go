package register

import (
	"context"

	services "github.com/magabrotheeeer/blogapp/internal/services/auth"
)

// Service определяет методы бизнес-логики для регистрации пользователей.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*services.Session, error)
}
