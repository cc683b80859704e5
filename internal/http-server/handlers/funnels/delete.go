package funnels

import (
	"log/slog"
	"net/http"

	"sankhyacrm/entity"
	handlererrors "sankhyacrm/internal/http-server/handlers/errors"
	"sankhyacrm/internal/lib/api/request"
	"sankhyacrm/internal/lib/api/response"
	"sankhyacrm/internal/lib/sl"

	"github.com/go-chi/render"
)

// Delete soft-deletes a funnel: the record is marked inactive, never
// physically removed.
func Delete(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.funnels.Delete"

		log := logger.With(slog.String("op", op))

		var del entity.FunnelDelete
		if err := request.DecodeAndValidate(r, &del); err != nil {
			log.Warn("invalid delete payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		if err := c.DeleteFunnel(r.Context(), del.CodFunil); err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		log.With(slog.String("cod_funil", del.CodFunil)).Info("funnel deactivated")
		w.WriteHeader(http.StatusNoContent)
	}
}
