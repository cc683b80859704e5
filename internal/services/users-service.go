package services

import (
	"context"
	"log/slog"
	"strconv"

	"sankhyacrm/entity"
	"sankhyacrm/internal/lib/sl"
)

const (
	usersEntity = "AD_USUARIOS"
	usersPK     = "CODUSU"
)

var userQueryFields = []string{
	"NOME", "EMAIL", "SENHA", "FUNCAO", "STATUS", "AVATAR",
}

// UsersService is the AD_USUARIOS adapter, consumed by the login path.
// It does not degrade to empty: the caller decides how to treat an
// unreachable user register.
type UsersService struct {
	api *SankhyaService
	log *slog.Logger
}

func NewUsersService(api *SankhyaService, log *slog.Logger) *UsersService {
	return &UsersService{
		api: api,
		log: log.With(sl.Module("users")),
	}
}

// List returns every CRM user held in the ERP, password hashes included.
func (s *UsersService) List(ctx context.Context) ([]entity.User, error) {
	query := entity.NewQuery(usersEntity, userQueryFields, "")

	raw, err := s.api.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	records, err := DecodeEntities(raw, usersPK)
	if err != nil {
		return nil, err
	}

	users := make([]entity.User, 0, len(records))
	for _, rec := range records {
		users = append(users, userFromRecord(rec))
	}
	return users, nil
}

func userFromRecord(rec entity.Record) entity.User {
	id, _ := strconv.Atoi(rec[usersPK])
	return entity.User{
		ID:       id,
		Name:     rec["NOME"],
		Email:    rec["EMAIL"],
		Password: rec["SENHA"],
		Role:     rec["FUNCAO"],
		Status:   rec["STATUS"],
		Avatar:   rec["AVATAR"],
	}
}
