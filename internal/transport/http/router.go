package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vidtube/internal/handler"
	"vidtube/internal/httputil"
	authmw "vidtube/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	VideoHandler        *handler.VideoHandler
	CommentHandler      *handler.CommentHandler
	LikeHandler         *handler.LikeHandler
	SubscriptionHandler *handler.SubscriptionHandler
	PlaylistHandler     *handler.PlaylistHandler
	TweetHandler        *handler.TweetHandler
	DashboardHandler    *handler.DashboardHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "OK")
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes - no authentication required
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh", cfg.AuthHandler.Refresh)
		})

		// Public read endpoints with optional authentication. A logged-in
		// viewer gets isLiked flags and access to their own unpublished
		// content; anonymous viewers get the published surface only.
		r.Group(func(r chi.Router) {
			r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

			r.Get("/videos", cfg.VideoHandler.Search)
			r.Get("/videos/trending", cfg.VideoHandler.Trending)
			r.Get("/videos/{id}", cfg.VideoHandler.Get)
			r.Get("/videos/{id}/comments", cfg.CommentHandler.List)

			r.Get("/channels/{id}/subscribers", cfg.SubscriptionHandler.Subscribers)
			r.Get("/users/{id}/subscriptions", cfg.SubscriptionHandler.SubscribedChannels)
			r.Get("/users/{id}/playlists", cfg.PlaylistHandler.ListByUser)
			r.Get("/users/{id}/tweets", cfg.TweetHandler.ListByUser)
			r.Get("/playlists/{id}", cfg.PlaylistHandler.Get)
		})

		// Protected routes - require authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			// Current user endpoints
			r.Get("/me", cfg.AuthHandler.Me)
			r.Get("/users/{id}/history", cfg.UserHandler.WatchHistory)

			// Auth actions that require authentication
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

			// Video lifecycle
			r.Post("/videos", cfg.VideoHandler.Publish)
			r.Patch("/videos/{id}", cfg.VideoHandler.Update)
			r.Delete("/videos/{id}", cfg.VideoHandler.Delete)
			r.Patch("/videos/{id}/toggle-publish", cfg.VideoHandler.TogglePublish)

			// Comments
			r.Post("/videos/{id}/comments", cfg.CommentHandler.Create)
			r.Patch("/comments/{id}", cfg.CommentHandler.Update)
			r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

			// Likes
			r.Post("/likes/video/{id}", cfg.LikeHandler.ToggleVideo)
			r.Post("/likes/comment/{id}", cfg.LikeHandler.ToggleComment)
			r.Post("/likes/tweet/{id}", cfg.LikeHandler.ToggleTweet)
			r.Get("/likes/videos", cfg.LikeHandler.LikedVideos)

			// Subscriptions
			r.Post("/subscriptions/{channelId}", cfg.SubscriptionHandler.Toggle)

			// Playlists
			r.Post("/playlists", cfg.PlaylistHandler.Create)
			r.Patch("/playlists/{id}", cfg.PlaylistHandler.Update)
			r.Delete("/playlists/{id}", cfg.PlaylistHandler.Delete)
			r.Post("/playlists/{id}/videos/{videoId}", cfg.PlaylistHandler.AddVideo)
			r.Delete("/playlists/{id}/videos/{videoId}", cfg.PlaylistHandler.RemoveVideo)

			// Tweets
			r.Post("/tweets", cfg.TweetHandler.Create)
			r.Patch("/tweets/{id}", cfg.TweetHandler.Update)
			r.Delete("/tweets/{id}", cfg.TweetHandler.Delete)

			// Channel dashboard
			r.Get("/dashboard/stats", cfg.DashboardHandler.Stats)
			r.Get("/dashboard/videos", cfg.DashboardHandler.Videos)
		})
	})

	return r
}
