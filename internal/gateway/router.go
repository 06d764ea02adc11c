package gateway

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"quizownik/internal/i18n"
)

func NewRouter(api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(defaultMaxLogBytes))
	r.Use(api.dontPanic)
	r.Use(middleware.NoCache)

	r.NotFound(api.HandleNotFound)
	r.MethodNotAllowed(api.HandleMethodNotAllowed)

	r.Get("/healthz", api.HandleHealth)

	r.Route("/{locale}/api", func(r chi.Router) {
		r.Use(api.withLocale)
		// recovers again once the locale is known
		r.Use(api.dontPanic)
		r.NotFound(api.HandleNotFound)
		r.MethodNotAllowed(api.HandleMethodNotAllowed)

		// public
		r.Post("/auth/signup", api.HandleSignup)
		r.Post("/auth/login", api.HandleLogin)
		r.Post("/auth/logout", api.HandleLogout)

		// protected
		r.Group(func(r chi.Router) {
			r.Use(api.sessions.Verifier())
			r.Use(api.sessions.Authenticator(http.HandlerFunc(api.writeUnauthorizedHandler)))

			r.Get("/user/profile", api.HandleProfile)
			r.Patch("/user/password", api.HandleChangePassword)

			r.Route("/quizzes", func(r chi.Router) {
				r.Get("/", api.HandleListQuizzes)
				r.Post("/", api.HandleCreateQuiz)
				r.Post("/generate", api.HandleGenerateQuiz)
				r.Get("/{id}", api.HandleGetQuiz)
				r.Put("/{id}", api.HandleUpdateQuiz)
				r.Delete("/{id}", api.HandleDeleteQuiz)
			})

			r.Route("/questions", func(r chi.Router) {
				r.Get("/", api.HandleListQuestions)
				r.Get("/categories", api.HandleQuestionCategories)
				r.Post("/", api.HandleCreateQuestion)
				r.Put("/{id}", api.HandleUpdateQuestion)
				r.Delete("/{id}", api.HandleDeleteQuestion)
			})

			r.Post("/results", api.HandleSubmitResult)
			r.Get("/results/me", api.HandleMyResults)
			r.Get("/results/plots", api.HandleCategoryPlots)
			r.Get("/leaderboard", api.HandleLeaderboard)
		})
	})

	return r
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (a *API) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	a.writeError(w, r, http.StatusNotFound, i18n.NotFound, nil, nil)
}

func (a *API) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func (a *API) writeUnauthorizedHandler(w http.ResponseWriter, r *http.Request) {
	a.writeUnauthorized(w, r)
}
