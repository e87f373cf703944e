// Package server exposes the wizard engine over HTTP: flow session CRUD,
// field updates, intent dispatch, and a websocket event stream
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/kode4food/arran/internal/engine"
	"github.com/kode4food/arran/pkg/util"
)

// Server implements the HTTP API for the wizard engine
type Server struct {
	engine  *engine.Engine
	sockets util.Set[*Client]
	mu      sync.Mutex
}

var ErrInvalidJSON = errors.New("invalid JSON payload")

// NewServer creates an HTTP API server over the engine
func NewServer(eng *engine.Engine) *Server {
	return &Server{
		engine:  eng,
		sockets: util.Set[*Client]{},
	}
}

// SetupRoutes configures and returns the HTTP router with all API
// endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/health", s.handleHealth)

	// Flow session endpoints
	flow := router.Group("/flow")
	{
		flow.POST("", s.createFlow)
		flow.GET("", s.listFlows)
		flow.GET("/:flowID", s.getFlow)
		flow.DELETE("/:flowID", s.deleteFlow)
		flow.PUT("/:flowID/fields", s.updateFields)
		flow.POST("/:flowID/intent", s.handleIntent)
	}

	// WebSocket
	router.GET("/ws", s.handleWebSocket)

	return router
}

func (s *Server) registerWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Add(c)
}

func (s *Server) unregisterWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Remove(c)
}

// CloseWebSockets closes all active WebSocket connections.
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]*Client, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
