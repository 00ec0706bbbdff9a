package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/sse"
)

// SSE event types emitted by /v1/chat/stream.
const (
	EventChunk = "chunk"
	EventReply = "reply"
)

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	Message string `json:"message"`
}

var errChatDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "chat assistant is not configured")

func (s *Server) chatMessage(c *fiber.Ctx) (string, error) {
	if s.chat == nil {
		return "", errChatDisabled
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return req.Message, nil
}

// handleChat handles POST /v1/chat.
func (s *Server) handleChat(c *fiber.Ctx) error {
	message, err := s.chatMessage(c)
	if err != nil {
		return err
	}

	reply, err := s.chat.Send(c.UserContext(), message, nil)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		return errorJSON(c, fiber.StatusBadRequest, "message is required")
	}
	if err != nil {
		s.logger.Error("chat failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "chat failed")
	}

	return c.JSON(reply)
}

// handleChatStream handles POST /v1/chat/stream. The answer is streamed as
// "chunk" events followed by one "reply" event carrying the final Reply.
func (s *Server) handleChatStream(c *fiber.Ctx) error {
	message, err := s.chatMessage(c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "message is required")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// io.Pipe gives per-chunk flushing to the client; the handler's
	// RequestCtx is recycled once we return, so the goroutine must not touch c.
	pr, pw := io.Pipe()
	go s.streamChat(message, pw)
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) streamChat(message string, pw *io.PipeWriter) {
	defer pw.Close()

	var writeErr error
	onStream := func(chunk string) {
		if writeErr != nil {
			return
		}
		writeErr = sse.Write(pw, sse.Event{Type: EventChunk, Data: chunk})
	}

	reply, err := s.chat.Send(context.Background(), message, onStream)
	if err != nil {
		s.logger.Error("chat stream failed", "error", err)
		reply = assistant.TextReply(assistant.FallbackMessage)
	}
	if writeErr != nil {
		s.logger.Warn("client went away during chat stream", "error", writeErr)
		return
	}

	data, err := json.Marshal(reply)
	if err != nil {
		s.logger.Error("failed to encode chat reply", "error", err)
		return
	}
	if err := sse.Write(pw, sse.Event{Type: EventReply, Data: string(data)}); err != nil {
		s.logger.Warn("client went away before chat reply", "error", err)
	}
}

// handleChatReset handles POST /v1/chat/reset.
func (s *Server) handleChatReset(c *fiber.Ctx) error {
	if s.chat == nil {
		return errChatDisabled
	}

	s.chat.Reset()
	return c.JSON(fiber.Map{"status": "reset"})
}
