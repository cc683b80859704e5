package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"sankhyacrm/internal/config"
	"sankhyacrm/internal/http-server/handlers/auth"
	"sankhyacrm/internal/http-server/handlers/errors"
	"sankhyacrm/internal/http-server/handlers/funnels"
	"sankhyacrm/internal/http-server/handlers/leads"
	"sankhyacrm/internal/http-server/handlers/partners"
	"sankhyacrm/internal/http-server/middleware/authenticate"
	"sankhyacrm/internal/http-server/middleware/nocache"
	"sankhyacrm/internal/http-server/middleware/timeout"
	"sankhyacrm/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	auth.Core
	leads.Core
	funnels.Core
	partners.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(30))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(nocache.New())

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Post("/auth/login", auth.Login(log, handler))

	router.Group(func(protected chi.Router) {
		protected.Use(authenticate.New(log, handler))

		protected.Route("/leads", func(r chi.Router) {
			r.Get("/", leads.List(log, handler))
			r.Post("/save", leads.Save(log, handler))
			r.Post("/update-stage", leads.UpdateStage(log, handler))
			r.Post("/delete", leads.Delete(log, handler))
		})

		protected.Route("/funnels", func(r chi.Router) {
			r.Get("/", funnels.List(log, handler))
			r.Post("/save", funnels.Save(log, handler))
			r.Post("/delete", funnels.Delete(log, handler))
			r.Get("/stages", funnels.ListStages(log, handler))
			r.Post("/stages/save", funnels.SaveStage(log, handler))
		})

		protected.Route("/partners", func(r chi.Router) {
			r.Get("/", partners.List(log, handler))
			r.Post("/save", partners.Save(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
