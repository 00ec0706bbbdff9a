package chatcmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/eventstream"
	"github.com/papercomputeco/kiosk/pkg/recorder"
	"github.com/papercomputeco/kiosk/pkg/storage"
	storageutils "github.com/papercomputeco/kiosk/pkg/storage/utils"
)

// localChat runs the assistant in-process and records chat logs through a
// recorder pool, the same way the API server does.
type localChat struct {
	service *assistant.Service
	pool    *recorder.Pool
	driver  storage.Driver
}

func newLocalChat(ctx context.Context, c *chatCommander) (*localChat, error) {
	if c.apiKey == "" {
		return nil, errors.New("no Gemini API key configured; pass --api-key, set KIOSK_ASSISTANT_API_KEY or use --remote")
	}

	profile, err := assistant.LoadProfile(c.profilePath)
	if err != nil {
		return nil, err
	}

	backend, err := assistant.NewGenAIBackend(ctx, c.apiKey, c.model)
	if err != nil {
		return nil, err
	}

	driver, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		PostgresDSN: c.postgresDSN,
		SQLitePath:  c.sqlitePath,
		Logger:      c.logger,
	})
	if err != nil {
		return nil, err
	}

	pool, err := recorder.NewPool(&recorder.Config{
		Driver:     driver,
		Source:     eventstream.EventSource{Kiosk: "kiosk-chat", Model: c.model},
		NumWorkers: 1,
		Logger:     c.logger,
	})
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("creating recorder: %w", err)
	}

	service := assistant.NewService(backend, profile,
		assistant.WithRecorder(pool),
		assistant.WithLogger(c.logger),
	)

	return &localChat{service: service, pool: pool, driver: driver}, nil
}

func (l *localChat) Send(ctx context.Context, message string, onStream func(chunk string)) (assistant.Reply, error) {
	return l.service.Send(ctx, message, onStream)
}

func (l *localChat) Reset(context.Context) error {
	l.service.Reset()
	return nil
}

// Close drains pending chat logs before closing the store.
func (l *localChat) Close() error {
	l.pool.Close()
	return l.driver.Close()
}
