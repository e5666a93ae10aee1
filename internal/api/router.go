package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/events"
	"github.com/inkwell/inkwell/internal/stats"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

// Server wires the handler groups into a gin engine and owns the HTTP
// listener's lifecycle.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *db.DB
	cache  *cache.Cache
	logger *zap.Logger
}

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config     *config.Config
	DB         *db.DB
	Cache      *cache.Cache
	Producer   *events.Producer
	Counters   *db.Counters
	Posts      *db.PostRepository
	Comments   *db.CommentRepository
	Users      *db.UserRepository
	Categories *db.CategoryRepository
	Tags       *db.TagRepository
	Bookmarks  *db.BookmarkRepository
	Activity   *db.ActivityRepository
	Site       *db.SiteRepository
	Stats      *stats.Service
}

// NewServer builds the engine and mounts every route group.
func NewServer(deps Dependencies) *Server {
	if deps.Config.Logging.Level != "DEBUG" && deps.Config.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), requestLogger())

	s := &Server{
		engine: engine,
		db:     deps.DB,
		cache:  deps.Cache,
		logger: logging.GetLogger().With(zap.String("component", "http")),
	}

	recorder := newActivityRecorder(deps.Activity, deps.Producer)

	posts := NewPostsAPI(deps.Posts, deps.Tags, deps.Categories, deps.Counters, deps.Cache, recorder)
	explore := NewExploreAPI(deps.Posts)
	comments := NewCommentsAPI(deps.Comments, deps.Posts, recorder)
	taxonomy := NewTaxonomyAPI(deps.Categories, deps.Tags)
	bookmarks := NewBookmarksAPI(deps.Bookmarks, deps.Posts, recorder)
	users := NewUsersAPI(deps.Users, deps.Posts)
	statsAPI := NewStatsAPI(deps.Stats, deps.Users)
	admin := NewAdminAPI(deps.Users, deps.Comments, deps.Activity, recorder)
	site := NewSiteAPI(deps.Site, recorder)
	webhooks := NewWebhooksAPI(&deps.Config.Webhook, deps.Users, recorder)

	engine.GET("/health", s.health)
	engine.GET("/.well-known/healthcheck.json", s.health)

	v1 := engine.Group("/api/v1")
	v1.Use(Identity(&deps.Config.Auth, deps.Users))
	{
		v1.GET("/posts", posts.List)
		v1.GET("/explore", explore.Explore)
		v1.GET("/posts/:slug", posts.Get)
		v1.GET("/posts/:slug/related", posts.Related)
		v1.GET("/posts/:slug/comments", comments.ListForPost)

		// Mutations address posts by id; reads go by slug.
		v1.POST("/posts/:id/view", posts.View)

		v1.GET("/categories", taxonomy.ListCategories)
		v1.GET("/tags", taxonomy.ListTags)
		v1.GET("/settings", site.ListSettings)

		v1.GET("/users/:username", users.Get)
		v1.GET("/users/:username/stats", statsAPI.ForUser)

		v1.POST("/newsletter/subscribe", site.Subscribe)
		v1.POST("/newsletter/unsubscribe", site.Unsubscribe)

		// Webhook deliveries authenticate by signature, not bearer token.
		v1.POST("/webhooks/identity", webhooks.HandleIdentityEvent)
	}

	authed := v1.Group("")
	authed.Use(RequireAuth())
	{
		authed.POST("/posts", posts.Create)
		authed.PUT("/posts/:id", posts.Update)
		authed.DELETE("/posts/:id", posts.Delete)
		authed.POST("/posts/:id/comments", comments.Create)
		authed.POST("/posts/:id/bookmark", bookmarks.Toggle)
		authed.POST("/comments/:id/like", comments.Like)
		authed.DELETE("/comments/:id", comments.Delete)

		authed.GET("/me", users.Me)
		authed.PUT("/me", users.UpdateMe)
		authed.GET("/me/bookmarks", bookmarks.ListMine)
		authed.GET("/me/stats", statsAPI.ForMe)
	}

	staff := v1.Group("/admin")
	staff.Use(RequireAuth(), RequireStaff())
	{
		staff.GET("/comments", admin.ListComments)
		staff.PUT("/comments/:id/status", admin.ModerateComment)
	}

	adminOnly := v1.Group("/admin")
	adminOnly.Use(RequireAuth(), RequireAdmin())
	{
		adminOnly.GET("/stats", statsAPI.ForSite)
		adminOnly.GET("/users", admin.ListUsers)
		adminOnly.PUT("/users/:id/status", admin.SetUserStatus)
		adminOnly.GET("/activity", admin.ListActivity)

		adminOnly.POST("/categories", taxonomy.CreateCategory)
		adminOnly.PUT("/categories/:id", taxonomy.UpdateCategory)
		adminOnly.DELETE("/categories/:id", taxonomy.DeleteCategory)
		adminOnly.POST("/tags", taxonomy.CreateTag)
		adminOnly.DELETE("/tags/:id", taxonomy.DeleteTag)

		adminOnly.GET("/settings", site.ListSettings)
		adminOnly.PUT("/settings/:key", site.PutSetting)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", deps.Config.Server.Host, deps.Config.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// requestLogger logs one line per request after it completes.
func requestLogger() gin.HandlerFunc {
	logger := logging.GetLogger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Writer.Header().Get(requestIDHeader)),
		)
	}
}

// health reports liveness of the server and its backing stores. A
// disabled cache is healthy; a configured but unreachable one is not.
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "cache": "ok"}

	if err := s.db.Health(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := s.cache.Health(ctx); err != nil {
		if err == cache.ErrCacheDisabled {
			checks["cache"] = "disabled"
		} else {
			checks["cache"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, checks)
}

// Start begins serving; it blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
