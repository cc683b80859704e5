package leads

import (
	"log/slog"
	"net/http"

	handlererrors "sankhyacrm/internal/http-server/handlers/errors"

	"github.com/go-chi/render"
)

func List(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.leads.List"

		log := logger.With(slog.String("op", op))

		leads, err := c.ListLeads(r.Context())
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		render.JSON(w, r, leads)
	}
}
