package auth

import (
	"context"
	"sankhyacrm/entity"
)

type Core interface {
	Login(ctx context.Context, email, password string) (*entity.User, error)
}
