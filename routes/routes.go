package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/volley-planner/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/volley-planner/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const requestTimeout = 60 * time.Second

type Handlers struct {
	Planning   *handlers.PlanningHandler
	Team       *handlers.TeamHandler
	Tournament *handlers.TournamentHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", handlers.Health)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// WebSocket без таймаута: соединение долгоживущее
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Get("/teams", h.Team.ListTeams)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListTournaments)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Post("/teams", h.Team.CreateTeam)

				r.Route("/planning", func(r chi.Router) {
					r.Get("/", h.Planning.GetPlanning)
					r.Post("/generate", h.Planning.GeneratePlanning)
					r.Get("/calendar", h.Planning.GetCalendar)
					r.Get("/table", h.Planning.GetTable)
					r.Post("/export", h.Planning.ExportPlanning)
				})
			})
		})
	})
}
