package partners

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

func Save(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.partners.Save"

		log := logger.With(slog.String("op", op))

		var partner entity.Partner
		if err := request.DecodeAndValidate(r, &partner); err != nil {
			log.Warn("invalid partner payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		saved, err := c.SavePartner(r.Context(), partner)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		log.With(slog.String("cod_parc", saved.CodParc)).Info("partner saved")
		render.JSON(w, r, saved)
	}
}
