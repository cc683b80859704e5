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

func Save(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.funnels.Save"

		log := logger.With(slog.String("op", op))

		var funnel entity.Funnel
		if err := request.DecodeAndValidate(r, &funnel); err != nil {
			log.Warn("invalid funnel payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		saved, err := c.SaveFunnel(r.Context(), funnel)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		log.With(slog.String("cod_funil", saved.CodFunil)).Info("funnel saved")
		render.JSON(w, r, saved)
	}
}

func SaveStage(logger *slog.Logger, c Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.funnels.SaveStage"

		log := logger.With(slog.String("op", op))

		var stage entity.Stage
		if err := request.DecodeAndValidate(r, &stage); err != nil {
			log.Warn("invalid stage payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		saved, err := c.SaveStage(r.Context(), stage)
		if err != nil {
			handlererrors.RenderRemote(log, w, r, err)
			return
		}

		log.With(slog.String("cod_estagio", saved.CodEstagio)).Info("stage saved")
		render.JSON(w, r, saved)
	}
}
