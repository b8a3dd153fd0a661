// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer: New is the composition root that
// connects MongoDB, the media host, services and handlers, and NewRouter
// decides which URL maps to which handler and which middleware guards it.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → mongo.Store, media.S3Store, auth.TokenService
//	             → service.*Service → handler.*Handler → chi routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/videotube/internal/auth"
	"github.com/sakif/videotube/internal/config"
	"github.com/sakif/videotube/internal/handler"
	"github.com/sakif/videotube/internal/media"
	"github.com/sakif/videotube/internal/middleware"
	mongorepo "github.com/sakif/videotube/internal/repository/mongo"
	"github.com/sakif/videotube/internal/service"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Users         *handler.UserHandler
	Videos        *handler.VideoHandler
	Comments      *handler.CommentHandler
	Likes         *handler.LikeHandler
	Subscriptions *handler.SubscriptionHandler
	Playlists     *handler.PlaylistHandler
	Tweets        *handler.TweetHandler
	Dashboard     *handler.DashboardHandler
	Health        *handler.HealthHandler
}

// Server owns the router and the MongoDB connection, which it closes on
// shutdown.
type Server struct {
	router http.Handler
	config config.Config
	logger *slog.Logger
	store  *mongorepo.Store
}

// New connects to MongoDB and the media host and wires the dependency
// graph. ctx bounds only the startup calls.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	// === STORAGE ===
	store, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.WithoutCancel(ctx))
		return nil, err
	}

	// === COLLABORATORS ===
	tokens, err := auth.NewTokenService(cfg.Tokens)
	if err != nil {
		_ = store.Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	mediaStore, err := media.NewS3Store(ctx, cfg.Media)
	if err != nil {
		_ = store.Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("creating media store: %w", err)
	}
	assets := service.NewAssets(mediaStore, media.NewResolver(media.PublicBaseURL(cfg.Media)), logger)

	// === SERVICES ===
	accounts := store.Accounts()
	videos := store.Videos()
	comments := store.Comments()
	likes := store.Likes()
	tweets := store.Tweets()

	authService := service.NewAuthService(accounts, tokens, auth.NewPasswordService(), assets, logger)
	videoService := service.NewVideoService(videos, accounts, comments, likes, assets, logger)
	commentService := service.NewCommentService(comments, videos, logger)
	likeService := service.NewLikeService(likes, videos, comments, tweets, logger)
	subscriptionService := service.NewSubscriptionService(store.Subscriptions(), accounts, logger)
	playlistService := service.NewPlaylistService(store.Playlists(), videos, logger)
	tweetService := service.NewTweetService(tweets, likes, logger)
	dashboardService := service.NewDashboardService(videos)

	// === HANDLERS ===
	cookies := handler.CookieOptions{
		Secure:     cfg.CookieSecure,
		AccessTTL:  tokens.AccessTTL(),
		RefreshTTL: tokens.RefreshTTL(),
	}
	h := Handlers{
		Users:         handler.NewUserHandler(authService, cookies, cfg.MaxUploadBytes, logger),
		Videos:        handler.NewVideoHandler(videoService, cfg.MaxUploadBytes, logger),
		Comments:      handler.NewCommentHandler(commentService, logger),
		Likes:         handler.NewLikeHandler(likeService, logger),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionService, logger),
		Playlists:     handler.NewPlaylistHandler(playlistService, logger),
		Tweets:        handler.NewTweetHandler(tweetService, logger),
		Dashboard:     handler.NewDashboardHandler(dashboardService, logger),
		Health:        handler.NewHealthHandler(store, logger),
	}
	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateBurst, 0)

	return &Server{
		router: NewRouter(h, authService, limiter, logger),
		config: cfg,
		logger: logger,
		store:  store,
	}, nil
}

// NewRouter mounts every route under /api/v1.
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: tags the request for the log line and error logs
//  2. RealIP: client IP from proxy headers, used by the rate limiter
//  3. Logger: one line per request
//  4. Recoverer: a panic becomes a 500 instead of a crash
//
// Login, register and refresh are rate limited per IP. Everything except
// those, the health check and register requires an access token.
func NewRouter(h Handlers, authn auth.Authenticator, authLimiter middleware.RateLimiter, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)

	requireAuth := auth.RequireAuth(authn)
	limited := middleware.RateLimit(authLimiter, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", h.Health.HandleHealth)

		r.Route("/users", func(r chi.Router) {
			r.With(limited).Post("/register", h.Users.HandleRegister)
			r.With(limited).Post("/login", h.Users.HandleLogin)
			r.With(limited).Post("/refresh-token", h.Users.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", h.Users.HandleLogout)
				r.Post("/change-password", h.Users.HandleChangePassword)
				r.Get("/current-user", h.Users.HandleCurrentUser)
				r.Patch("/update-account", h.Users.HandleUpdateAccount)
				r.Patch("/avatar", h.Users.HandleUpdateAvatar)
				r.Patch("/cover-image", h.Users.HandleUpdateCover)
				r.Get("/c/{username}", h.Users.HandleChannelProfile)
				r.Get("/history", h.Users.HandleWatchHistory)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", h.Videos.HandleList)
				r.Post("/", h.Videos.HandlePublish)
				r.Get("/{videoId}", h.Videos.HandleGetByID)
				r.Patch("/{videoId}", h.Videos.HandleUpdate)
				r.Delete("/{videoId}", h.Videos.HandleDelete)
				r.Patch("/toggle/publish/{videoId}", h.Videos.HandleTogglePublish)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/{videoId}", h.Comments.HandleList)
				r.Post("/{videoId}", h.Comments.HandleAdd)
				r.Patch("/c/{commentId}", h.Comments.HandleUpdate)
				r.Delete("/c/{commentId}", h.Comments.HandleDelete)
			})

			r.Route("/likes", func(r chi.Router) {
				r.Post("/toggle/v/{videoId}", h.Likes.HandleToggleVideo)
				r.Post("/toggle/c/{commentId}", h.Likes.HandleToggleComment)
				r.Post("/toggle/t/{tweetId}", h.Likes.HandleToggleTweet)
				r.Get("/videos", h.Likes.HandleLikedVideos)
				r.Get("/videos/{userId}", h.Likes.HandleLikedVideos)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/c/{channelId}", h.Subscriptions.HandleToggle)
				r.Get("/c/{channelId}", h.Subscriptions.HandleSubscribers)
				r.Get("/u/{subscriberId}", h.Subscriptions.HandleSubscribedChannels)
			})

			r.Route("/playlist", func(r chi.Router) {
				r.Post("/", h.Playlists.HandleCreate)
				r.Get("/user/{userId}", h.Playlists.HandleListByOwner)
				r.Patch("/add/{videoId}/{playlistId}", h.Playlists.HandleAddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", h.Playlists.HandleRemoveVideo)
				r.Get("/{playlistId}", h.Playlists.HandleGetByID)
				r.Patch("/{playlistId}", h.Playlists.HandleUpdate)
				r.Delete("/{playlistId}", h.Playlists.HandleDelete)
			})

			r.Route("/tweets", func(r chi.Router) {
				r.Post("/", h.Tweets.HandleCreate)
				r.Get("/user/{userId}", h.Tweets.HandleListByOwner)
				r.Patch("/{tweetId}", h.Tweets.HandleUpdate)
				r.Delete("/{tweetId}", h.Tweets.HandleDelete)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", h.Dashboard.HandleStats)
				r.Get("/videos", h.Dashboard.HandleVideos)
			})
		})
	})

	return r
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests and
// disconnects MongoDB.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests
//  3. Disconnect the MongoDB client
func (s *Server) Start() error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Close(ctx); err != nil {
			s.logger.Warn("closing mongo client", slog.String("error", err.Error()))
		}
	}()

	// Uploads can be large, so WriteTimeout is generous and ReadTimeout is
	// left to ReadHeaderTimeout plus the multipart size limit.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.MongoDatabase),
			slog.String("bucket", s.config.Media.Bucket),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
