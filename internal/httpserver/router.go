package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Handler         *Handler
	InternalToken   string
	JWTSecret       string
	EventsWSHandler http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/v1", func(r chi.Router) {
		r.With(InternalAuth(d.InternalToken)).Post("/auth/token", d.Handler.Token)
		r.Get("/events/ws", d.EventsWSHandler.ServeHTTP)
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.JWTSecret))
			r.Post("/frames/1", d.Handler.Frame1)
			r.Post("/frames/2", d.Handler.Frame2)
			r.Post("/frames/3", d.Handler.Frame3)
			r.Post("/frames/4", d.Handler.Frame4)
			r.Post("/frames/5", d.Handler.Frame5)
			r.Post("/frames/6", d.Handler.Frame6)
			r.Post("/trades/{id}/result", d.Handler.Run)
		})
	})
	return r
}
