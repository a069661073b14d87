package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"love-journal-backend/internal/handlers"
	"love-journal-backend/internal/quotes"
	"love-journal-backend/internal/repository"
	"love-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateOnStart {
		applied, err := db.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("Migrations applied")
	}

	loc := cfg.App.Location()
	now := time.Now

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	coupleRepo := repository.NewCoupleRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL, now)
	coupleService := services.NewCoupleService(coupleRepo, userRepo, now, loc)
	moodService := services.NewMoodService(moodRepo, userRepo, now, loc)
	postService := services.NewPostService(postRepo, commentRepo, reactionRepo, now, loc)
	quoteService := services.NewQuoteService(quoteRepo, quotes.Embedded(), now, loc)
	mediaService, err := services.NewMediaService(ctx, cfg.AWS)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
		Cookie:         handlers.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.JWT.CookieSecure},
		Now:            now,
		Location:       loc,
	}, handlers.Services{
		Users:    userService,
		Couples:  coupleService,
		Moods:    moodService,
		Reviews:  services.NewReviewService(moodRepo),
		Posts:    postService,
		Messages: services.NewMessageService(messageRepo, now),
		Days:     services.NewDayService(moodService, postService, quoteService),
		Quotes:   quoteService,
		Media:    mediaService,
		Store:    db,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("timezone", loc.String()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}
