package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"learnhub-backend/internal/handlers"
	"learnhub-backend/internal/middleware"
	"learnhub-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	courseHandler *handlers.CourseHandler,
	waitlistHandler *handlers.WaitlistHandler,
	youtubeHandler *handlers.YouTubeHandler,
	groupingHandler *handlers.GroupingHandler,
	importHandler *handlers.ImportHandler,
	userHandler *handlers.UserHandler,
	jobHandler *handlers.JobHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Rate limiters: auth endpoints are brute-force targets, the waitlist
	// is a public unauthenticated write.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	waitlistLimiter := middleware.NewRateLimiter(5, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Public Catalog ────
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.List)
			r.Get("/{slug}", courseHandler.GetBySlug)
		})

		// ──── Waitlist (public signup) ────
		r.Route("/waitlist", func(r chi.Router) {
			r.With(waitlistLimiter.Middleware).Post("/", waitlistHandler.Join)
		})

		// ──── User Routes ────
		r.Route("/users/me", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", userHandler.GetProfile)
			r.Put("/", userHandler.UpdateProfile)
			r.Put("/password", userHandler.ChangePassword)
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", jobHandler.List)
			r.Get("/{jobID}", jobHandler.Get)
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireAdmin)

			r.Route("/youtube", func(r chi.Router) {
				r.Post("/fetch", youtubeHandler.StartChannelFetch)
				r.Post("/comments", youtubeHandler.StartCommentImport)

				r.Route("/channels/{channelID}", func(r chi.Router) {
					r.Get("/videos", youtubeHandler.GetSnapshot)
					r.Get("/search", youtubeHandler.SearchVideos)
					r.Post("/refresh", youtubeHandler.RefreshSnapshot)
					r.Post("/grouping", groupingHandler.Analyze)
					r.Post("/import", importHandler.CreateCourse)
				})
			})

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", youtubeHandler.ListImportedVideos)
				r.Get("/{videoID}/comments", youtubeHandler.ListVideoComments)
				r.Get("/{videoID}/comments/insights", youtubeHandler.GetCommentInsights)
			})

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", courseHandler.AdminList)
				r.Patch("/{courseID}/status", courseHandler.UpdateStatus)
				r.Patch("/{courseID}/featured", courseHandler.SetFeatured)
				r.Delete("/{courseID}", courseHandler.Delete)
			})

			r.Get("/waitlist", waitlistHandler.List)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
