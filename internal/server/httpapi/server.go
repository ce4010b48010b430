// Package httpapi is the HTTP/JSON surface of the server: a gin router over
// the service layer, with token authentication and uniform error bodies.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planwise/planwise/internal/logging"
	"github.com/planwise/planwise/internal/server/config"
	"github.com/planwise/planwise/internal/server/services"
)

type Server struct {
	config  *config.Config
	logger  logging.Logger
	users   *services.UserService
	tags    *services.TagService
	tasks   *services.TaskService
	loader  *services.LoadService
	httpSrv *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger,
	users *services.UserService, tags *services.TagService,
	tasks *services.TaskService, loader *services.LoadService) *Server {
	return &Server{
		config: cfg,
		logger: logger.With("module", "httpapi"),
		users:  users,
		tags:   tags,
		tasks:  tasks,
		loader: loader,
	}
}

// Handler builds the gin engine with all routes registered. Exposed
// separately from Run so handler tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/refresh", s.handleRefresh)

	authed := api.Group("", s.authRequired())
	authed.GET("/load", s.handleLoad)

	authed.POST("/tags", s.handleCreateTag)
	authed.PUT("/tags/:id", s.handleDeleteTag)
	authed.POST("/tags/:id/edit", s.handleEditTag)

	authed.POST("/tasks", s.handleCreateTask)
	authed.POST("/tasks/batch", s.handleBatchCreateTasks)
	authed.PUT("/tasks/:id", s.handleDeleteTask)
	authed.POST("/tasks/batch_delete", s.handleBatchDeleteTasks)
	authed.POST("/tasks/:id/edit", s.handleEditTask)
	authed.POST("/tasks/batch_edit", s.handleBatchEditTasks)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.config.EndpointAddr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "server started", "addr", s.config.EndpointAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
