package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/GregMSThompson/pennyweek/internal/handlers"
	"github.com/GregMSThompson/pennyweek/internal/middleware"
	"github.com/GregMSThompson/pennyweek/internal/uploads"
)

type Options struct {
	CORSOrigins []string
	// UploadDir is served under /uploads/ when photos are stored locally.
	UploadDir string
}

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		// bearer tokens only, no cookies
		MaxAge: 300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandlers(deps)
	r.Mount("/auth", ah.AuthRoutes())

	if opts.UploadDir != "" {
		fs := http.StripPrefix(uploads.LocalURLPrefix, http.FileServer(http.Dir(opts.UploadDir)))
		r.Handle(uploads.LocalURLPrefix+"*", fs)
	}

	ush := handlers.NewUserHandlers(deps)
	tsh := handlers.NewTransactionHandlers(deps)
	bgh := handlers.NewBudgetHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Mount("/users", ush.UserRoutes())
		r.Mount("/transactions", tsh.TransactionRoutes())
		r.Mount("/budgets", bgh.BudgetRoutes())
	})
	return r
}
