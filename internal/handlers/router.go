package handlers

import (
	"net/http"
	"time"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP-level settings of the router
type RouterConfig struct {
	AllowedOrigins []string
	// Requests per minute per IP on auth and upload routes, 0 disables the limit
	RateLimit int
	Cookie    CookieConfig
	Now       services.Clock
	Location  *time.Location
}

// Services bundles everything the handlers call into
type Services struct {
	Users    *services.UserService
	Couples  *services.CoupleService
	Moods    *services.MoodService
	Reviews  *services.ReviewService
	Posts    *services.PostService
	Messages *services.MessageService
	Days     *services.DayService
	Quotes   *services.QuoteService
	Media    Uploader
	Store    middleware.StoreChecker
}

// NewRouter wires every route
func NewRouter(cfg RouterConfig, svc Services) http.Handler {
	userHandler := NewUserHandler(svc.Users, cfg.Cookie)
	coupleHandler := NewCoupleHandler(svc.Couples)
	moodHandler := NewMoodHandler(svc.Moods)
	reviewHandler := NewReviewHandler(svc.Reviews, cfg.Now, cfg.Location)
	postHandler := NewPostHandler(svc.Posts)
	messageHandler := NewMessageHandler(svc.Messages)
	dayHandler := NewDayHandler(svc.Days, svc.Quotes)
	mediaHandler := NewMediaHandler(svc.Media, svc.Couples)
	healthHandler := NewHealthHandler(svc.Store)

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit > 0 {
		limit = httprate.LimitByIP(cfg.RateLimit, time.Minute)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health/db", healthHandler.DB)

	r.Group(func(r chi.Router) {
		r.Use(middleware.StoreHealth(svc.Store))

		r.Route("/auth", func(r chi.Router) {
			r.With(limit).Post("/register", userHandler.Register)
			r.With(limit).Post("/login", userHandler.Login)
			r.Post("/logout", userHandler.Logout)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(svc.Users, cfg.Cookie.Name))

			r.Get("/user/profile", userHandler.GetProfile)
			r.Patch("/user/profile", userHandler.UpdateProfile)

			r.Route("/couple", func(r chi.Router) {
				r.Get("/me", coupleHandler.Me)
				r.Post("/create", coupleHandler.Create)
				r.Post("/join", coupleHandler.Join)
				r.Post("/leave", coupleHandler.Leave)
				r.Patch("/update-start-date", coupleHandler.UpdateStartDate)
			})

			r.With(limit).Post("/upload", mediaHandler.Upload)

			// Routes scoped to the caller's couple
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCouple(svc.Couples))

				r.Post("/moods", moodHandler.Record)
				r.Get("/moods/today", moodHandler.Today)
				r.Get("/mood-match/today", moodHandler.Match)
				r.Get("/review", reviewHandler.Get)
				r.Get("/day", dayHandler.Day)
				r.Get("/quote/today", dayHandler.QuoteToday)

				r.Route("/posts", func(r chi.Router) {
					r.Get("/", postHandler.List)
					r.Post("/", postHandler.Save)
					r.Get("/starred", postHandler.Starred)
					r.Get("/{id}", postHandler.Get)
					r.Delete("/{id}", postHandler.Delete)
					r.Patch("/{id}/star", postHandler.Star)
					r.Get("/{id}/comments", postHandler.ListComments)
					r.Post("/{id}/comments", postHandler.AddComment)
					r.Get("/{id}/reactions", postHandler.Reactions)
					r.Post("/{id}/reactions", postHandler.React)
					r.Delete("/{id}/reactions", postHandler.Unreact)
				})

				r.Get("/messages", messageHandler.List)
				r.Post("/messages", messageHandler.Send)
			})
		})
	})

	return r
}
