package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/handlers"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	wh := handlers.NewWidgetHandlers(deps)
	hh := handlers.NewHabitHandlers(deps)
	sh := handlers.NewSettingsHandlers(deps)
	uh := handlers.NewUserHandlers(deps)

	auth := middleware.NewMiddleware(deps.Firebase)
	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)
		r.Mount("/widgets", wh.WidgetRoutes())
		r.Mount("/habits", hh.HabitRoutes())
		r.Mount("/settings", sh.SettingsRoutes())
		r.Mount("/users", uh.UserRoutes())
	})

	return r
}
