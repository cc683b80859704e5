package partners

import (
	"log/slog"
	"net/http"
	"strconv"

	handlererrors "sankhyacrm/internal/http-server/handlers/errors"
	"sankhyacrm/internal/lib/api/response"

	"github.com/go-chi/render"
)

const defaultPageSize = 50

func List(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.partners.List"

		log := logger.With(slog.String("op", op))

		query := r.URL.Query()
		page := intParam(query.Get("page"), 1)
		pageSize := intParam(query.Get("pageSize"), defaultPageSize)
		searchName := query.Get("searchName")
		searchCode := query.Get("searchCode")

		partners, total, err := c.ListPartners(r.Context(), page, pageSize, searchName, searchCode)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Partners(partners, page, pageSize, total))
	}
}

func intParam(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
