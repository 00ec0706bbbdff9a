package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/deck"
)

// Chatter answers kiosk visitors. *assistant.Service implements it.
type Chatter interface {
	Send(ctx context.Context, message string, onStream func(chunk string)) (assistant.Reply, error)
	Reset()
}

// Server is the API server for the kiosk dashboard and chat assistant.
type Server struct {
	config Config
	deck   deck.Querier
	chat   Chatter
	now    func() time.Time
	logger *slog.Logger
	app    *fiber.App
}

// Ensure the assistant service satisfies Chatter
var _ Chatter = (*assistant.Service)(nil)

// NewServer creates a new API server. chat may be nil, in which case the
// chat routes answer 503.
func NewServer(config Config, querier deck.Querier, chat Chatter, logger *slog.Logger) (*Server, error) {
	if querier == nil {
		return nil, errors.New("dashboard querier is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		config: config,
		deck:   querier,
		chat:   chat,
		now:    time.Now,
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		// Compressing an event stream would hold chunks back until the end.
		Next: func(c *fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/stream")
		},
	}))
	s.app = app

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Get("/dashboard", s.handleDashboard)
	v1.Get("/dashboard/logs", s.handleDashboardLogs)
	v1.Get("/dashboard/export/:kind", s.handleExport)
	v1.Post("/chat", s.handleChat)
	v1.Post("/chat/stream", s.handleChatStream)
	v1.Post("/chat/reset", s.handleChatReset)

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
