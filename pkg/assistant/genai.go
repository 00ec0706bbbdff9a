package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GenAIBackend talks to Gemini through the Google GenAI SDK.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

// Ensure GenAIBackend implements Backend
var _ Backend = (*GenAIBackend)(nil)

// NewGenAIBackend creates a Gemini backend.
func NewGenAIBackend(ctx context.Context, apiKey, model string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}

	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIBackend{client: client, model: model}, nil
}

// StartSession creates a chat with the system instruction. No response
// schema is set so the model may answer with JSON or with plain text.
func (b *GenAIBackend) StartSession(ctx context.Context, systemInstruction string) (Session, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	chat, err := b.client.Chats.Create(ctx, b.model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}

	return &genaiSession{chat: chat}, nil
}

type genaiSession struct {
	chat *genai.Chat
}

func (s *genaiSession) Send(ctx context.Context, message string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return resp.Text(), nil
}

func (s *genaiSession) SendStream(ctx context.Context, message string, onChunk func(string)) (string, error) {
	var full strings.Builder
	for resp, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: message}) {
		if err != nil {
			return full.String(), fmt.Errorf("stream message: %w", err)
		}
		chunk := resp.Text()
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return full.String(), nil
}
