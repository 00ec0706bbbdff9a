package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/deck"
)

// LogsResponse lists the chat logs of the selected period, newest first.
type LogsResponse struct {
	Count int               `json:"count"`
	Logs  []chatlog.ChatLog `json:"logs"`
}

// handleDashboard handles GET /v1/dashboard.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	filters, err := s.parseFilters(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	dashboard, err := s.deck.Dashboard(c.Context(), filters)
	if err != nil {
		s.logger.Error("failed to build dashboard", "error", err, "range", filters.Range)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}

	return c.JSON(dashboard)
}

// handleDashboardLogs handles GET /v1/dashboard/logs.
func (s *Server) handleDashboardLogs(c *fiber.Ctx) error {
	filters, err := s.parseFilters(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	logs, err := s.deck.CurrentLogs(c.Context(), filters)
	if err != nil {
		s.logger.Error("failed to list chat logs", "error", err, "range", filters.Range)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to list chat logs")
	}

	return c.JSON(LogsResponse{Count: len(logs), Logs: logs})
}

// handleExport handles GET /v1/dashboard/export/:kind.
func (s *Server) handleExport(c *fiber.Ctx) error {
	kind, err := deck.ParseExportKind(c.Params("kind"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	filters, err := s.parseFilters(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.Context()
	dashboard, err := s.deck.Dashboard(ctx, filters)
	if err != nil {
		s.logger.Error("failed to build dashboard for export", "error", err, "kind", kind)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to build export")
	}
	current, err := s.deck.CurrentLogs(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list chat logs for export", "error", err, "kind", kind)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to build export")
	}

	var buf bytes.Buffer
	if kind == deck.ExportXLSX {
		err = deck.WriteXLSX(&buf, dashboard, current)
	} else {
		err = deck.WriteCSV(&buf, kind, dashboard, current)
	}
	if err != nil {
		s.logger.Error("failed to write export", "error", err, "kind", kind)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to build export")
	}

	c.Attachment(deck.ExportFilename(kind, filters, s.now()))
	c.Set(fiber.HeaderContentType, kind.ContentType())
	return c.Send(buf.Bytes())
}
