package leads

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

// UpdateStage serves the kanban drag-and-drop: one lead moves to another
// stage of its funnel.
func UpdateStage(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.leads.UpdateStage"

		log := logger.With(slog.String("op", op))

		var move entity.StageMove
		if err := request.DecodeAndValidate(r, &move); err != nil {
			log.Warn("invalid stage move payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		lead, err := c.UpdateLeadStage(r.Context(), move.CodLead, move.CodEstagio)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		log.With(
			slog.String("cod_lead", move.CodLead),
			slog.String("cod_estagio", move.CodEstagio),
		).Info("lead stage updated")
		render.JSON(w, r, lead)
	}
}
