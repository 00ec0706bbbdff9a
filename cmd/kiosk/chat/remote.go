package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/kiosk/api"
	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/sse"
)

// remoteChat talks to the chat endpoints of a running kiosk API server.
type remoteChat struct {
	target string
	client *http.Client
	logger *slog.Logger
}

func newRemoteChat(target string, logger *slog.Logger) *remoteChat {
	return &remoteChat{
		target: strings.TrimRight(target, "/"),
		client: &http.Client{
			// Model answers can be slow
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

// Send posts the question to /v1/chat/stream and relays chunk events to
// onStream until the final reply event arrives.
func (r *remoteChat) Send(ctx context.Context, message string, onStream func(chunk string)) (assistant.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return assistant.Reply{}, assistant.ErrEmptyMessage
	}

	body, err := json.Marshal(api.ChatRequest{Message: message})
	if err != nil {
		return assistant.Reply{}, fmt.Errorf("marshaling request: %w", err)
	}

	r.logger.Debug("sending chat request", "api_target", r.target)

	resp, err := r.post(ctx, "/v1/chat/stream", body)
	if err != nil {
		return assistant.Reply{}, err
	}
	defer resp.Body.Close()

	reader := sse.NewReader(resp.Body)
	for {
		ev, err := reader.Next()
		if err != nil {
			return assistant.Reply{}, fmt.Errorf("reading stream: %w", err)
		}
		if ev == nil {
			return assistant.Reply{}, errors.New("chat stream ended without a reply")
		}

		switch ev.Type {
		case api.EventChunk:
			if onStream != nil {
				onStream(ev.Data)
			}
		case api.EventReply:
			var reply assistant.Reply
			if err := json.Unmarshal([]byte(ev.Data), &reply); err != nil {
				return assistant.Reply{}, fmt.Errorf("decoding reply: %w", err)
			}
			return reply, nil
		default:
			r.logger.Debug("ignoring unknown chat stream event", "type", ev.Type)
		}
	}
}

func (r *remoteChat) Reset(ctx context.Context) error {
	resp, err := r.post(ctx, "/v1/chat/reset", nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (r *remoteChat) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *remoteChat) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.target+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request to kiosk API: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var errResp api.ErrorResponse
	if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("kiosk API returned status %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("kiosk API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
