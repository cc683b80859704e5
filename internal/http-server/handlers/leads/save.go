package leads

import (
	"log/slog"
	"net/http"

	"sankhyacrm/entity"
	handlererrors "sankhyacrm/internal/http-server/handlers/errors"
	"sankhyacrm/internal/lib/api/cont"
	"sankhyacrm/internal/lib/api/request"
	"sankhyacrm/internal/lib/api/response"
	"sankhyacrm/internal/lib/sl"

	"github.com/go-chi/render"
)

func Save(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.leads.Save"

		log := logger.With(slog.String("op", op))

		var lead entity.Lead
		if err := request.DecodeAndValidate(r, &lead); err != nil {
			log.Warn("invalid lead payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		saved, err := c.SaveLead(r.Context(), lead)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		log.With(
			slog.String("cod_lead", saved.CodLead),
			slog.String("user", cont.GetUser(r.Context()).Name),
		).Info("lead saved")
		render.JSON(w, r, saved)
	}
}
