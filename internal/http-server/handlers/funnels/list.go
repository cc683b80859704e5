package funnels

import (
	"log/slog"
	"net/http"

	handlererrors "sankhyacrm/internal/http-server/handlers/errors"
	"sankhyacrm/internal/lib/api/response"

	"github.com/go-chi/render"
)

func List(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.funnels.List"

		log := logger.With(slog.String("op", op))

		funnels, err := c.ListFunnels(r.Context())
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		render.JSON(w, r, funnels)
	}
}

// ListStages returns the stages of the funnel named by ?codFunil=, in
// board order.
func ListStages(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.funnels.ListStages"

		log := logger.With(slog.String("op", op))

		codFunil := r.URL.Query().Get("codFunil")
		if codFunil == "" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("codFunil is required"))
			return
		}

		stages, err := c.ListStages(r.Context(), codFunil)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		render.JSON(w, r, stages)
	}
}
