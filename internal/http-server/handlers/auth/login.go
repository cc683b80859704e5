package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"sankhyacrm/entity"
	"sankhyacrm/impl/core"
	"sankhyacrm/internal/lib/api/request"
	"sankhyacrm/internal/lib/api/response"
	"sankhyacrm/internal/lib/sl"

	"github.com/go-chi/render"
)

type loginResponse struct {
	User *entity.User `json:"user"`
}

func Login(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		log := logger.With(
			slog.String("op", op),
			slog.String("remote_addr", r.RemoteAddr),
		)

		var req entity.LoginRequest
		if err := request.DecodeAndValidate(r, &req); err != nil {
			log.Warn("invalid login request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Email e senha são obrigatórios"))
			return
		}

		user, err := c.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, core.ErrInvalidCredentials) {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Email ou senha inválidos, ou usuário não aprovado"))
				return
			}
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Erro ao fazer login. Tente novamente."))
			return
		}

		log.With(slog.String("email", req.Email)).Info("user logged in")
		render.JSON(w, r, loginResponse{User: user})
	}
}
