package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// ErrEmptyMessage is returned by Send for blank user input.
var ErrEmptyMessage = errors.New("message is empty")

// Recorder receives a chat log for every exchange.
type Recorder interface {
	Enqueue(log chatlog.ChatLog) bool
}

// Service holds the kiosk's single chat session. Sends are serialized so
// turns reach the model in order.
type Service struct {
	backend     Backend
	instruction string
	classifier  *Classifier
	recorder    Recorder
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	session Session
}

type ServiceOption func(*Service)

func WithRecorder(recorder Recorder) ServiceOption {
	return func(s *Service) { s.recorder = recorder }
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService builds a chat service for the kiosk described by profile.
func NewService(backend Backend, profile Profile, opts ...ServiceOption) *Service {
	s := &Service{
		backend:     backend,
		instruction: BuildSystemInstruction(profile),
		classifier:  NewClassifier(profile),
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession replaces the current conversation with a fresh one.
func (s *Service) StartSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx)
}

// Reset drops the conversation. The next Send starts a new one.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// Send asks the model and returns its reply, starting a session if needed.
// When onStream is non-nil the answer is streamed to it chunk by chunk.
// Backend failures never surface as errors: the user gets FallbackMessage
// and the failure is logged.
func (s *Service) Send(ctx context.Context, message string, onStream func(chunk string)) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	reply, err := s.sendLocked(ctx, message, onStream)
	latency := s.now().Sub(start)

	if err != nil {
		s.logger.Error("error processing chat message", "error", err, "latency", latency)
		reply = TextReply(FallbackMessage)
	}

	s.record(message, reply, latency, start, err == nil)
	return reply, nil
}

func (s *Service) sendLocked(ctx context.Context, message string, onStream func(string)) (Reply, error) {
	if s.session == nil {
		if err := s.startLocked(ctx); err != nil {
			return Reply{}, err
		}
	}

	var (
		raw string
		err error
	)
	if onStream != nil {
		raw, err = s.session.SendStream(ctx, message, onStream)
	} else {
		raw, err = s.session.Send(ctx, message)
	}
	if err != nil {
		return Reply{}, err
	}

	reply, err := ParseReply(raw)
	if err != nil {
		return Reply{}, err
	}
	if reply.Type == ReplyText && LooksLikeJSON(reply.Text) {
		s.logger.Warn("response looked like JSON but failed to parse, treating as text", "response", reply.Text)
	}

	return reply, nil
}

func (s *Service) startLocked(ctx context.Context) error {
	session, err := s.backend.StartSession(ctx, s.instruction)
	if err != nil {
		s.session = nil
		return fmt.Errorf("start chat session: %w", err)
	}
	s.session = session
	s.logger.Debug("started chat session")
	return nil
}

func (s *Service) record(query string, reply Reply, latency time.Duration, at time.Time, ok bool) {
	if s.recorder == nil {
		return
	}

	log := chatlog.New(query, s.classifier.Classify(query, reply), latency, at, ok && !reply.IsFallback())
	if !s.recorder.Enqueue(log) {
		s.logger.Warn("chat log dropped", "id", log.ID)
	}
}
