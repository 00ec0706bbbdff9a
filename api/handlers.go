package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/kiosk/pkg/deck"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

// handleError renders errors returned from handlers, including unknown
// routes and recovered panics, as ErrorResponse JSON.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	} else {
		s.logger.Error("unhandled API error", "error", err, "path", c.Path())
	}

	return errorJSON(c, status, msg)
}

// parseFilters reads range, from and to query parameters. from and to are
// dates (YYYY-MM-DD) and only required for range=custom.
func (s *Server) parseFilters(c *fiber.Ctx) (deck.Filters, error) {
	rng, err := deck.ParseTimeRange(c.Query("range"))
	if err != nil {
		return deck.Filters{}, err
	}

	filters := deck.Filters{Range: rng}
	if rng != deck.RangeCustom {
		return filters, nil
	}

	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		return deck.Filters{}, fmt.Errorf("range %q requires from and to", rng)
	}

	filters.CustomStart, err = deck.ParseDate(from, time.Local)
	if err != nil {
		return deck.Filters{}, fmt.Errorf("invalid from date: %w", err)
	}
	filters.CustomEnd, err = deck.ParseDate(to, time.Local)
	if err != nil {
		return deck.Filters{}, fmt.Errorf("invalid to date: %w", err)
	}

	return filters, nil
}
