package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quizhub-backend/internal/handlers"
	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/middleware"
)

func New(
	log *logger.Logger,
	jwtAuth *middleware.JWTAuth,
	loginLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	attemptHandler *handlers.AttemptHandler,
	reportHandler *handlers.ReportHandler,
	questionHandler *handlers.QuestionHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.With(loginLimiter.Middleware).Post("/token", authHandler.Login)

		// ──── User Routes (admin) ────
		r.Route("/users", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireAdmin)
			r.Post("/", authHandler.CreateUser)
			r.Get("/", authHandler.ListUsers)
		})

		// ──── Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/{id}", quizHandler.Get) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/", quizHandler.List)
				r.Post("/", quizHandler.Create)
				r.Get("/mine", quizHandler.ListMine)
				r.Get("/user", quizHandler.ListMine)
				r.Post("/{id}/questions", quizHandler.MapQuestions)

				r.Post("/{id}/start", attemptHandler.Start)
				r.Post("/{id}/submit", attemptHandler.Submit)

				r.Get("/{id}/participants", reportHandler.Participants)
				r.Get("/{id}/response", reportHandler.MyResponse)
				r.Get("/{id}/scores", reportHandler.Scores)
			})
		})

		// ──── Question Catalog ────
		r.Route("/questions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", questionHandler.List)
			r.Get("/{id}", questionHandler.Get)
		})
	})

	return r
}
