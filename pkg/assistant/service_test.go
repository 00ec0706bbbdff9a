package assistant_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

type fakeSession struct {
	replies []string
	err     error
	sent    []string
}

func (s *fakeSession) next(message string) (string, error) {
	s.sent = append(s.sent, message)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *fakeSession) Send(_ context.Context, message string) (string, error) {
	return s.next(message)
}

func (s *fakeSession) SendStream(_ context.Context, message string, onChunk func(string)) (string, error) {
	reply, err := s.next(message)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(reply); i += 8 {
		onChunk(reply[i:min(i+8, len(reply))])
	}
	return reply, nil
}

type fakeBackend struct {
	sessions     []*fakeSession
	started      int
	startErr     error
	instructions []string
}

func (b *fakeBackend) StartSession(_ context.Context, instruction string) (assistant.Session, error) {
	b.instructions = append(b.instructions, instruction)
	if b.startErr != nil {
		return nil, b.startErr
	}
	session := b.sessions[b.started]
	b.started++
	return session, nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	logs []chatlog.ChatLog
}

func (r *fakeRecorder) Enqueue(log chatlog.ChatLog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return true
}

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		session  *fakeSession
		backend  *fakeBackend
		recorder *fakeRecorder
		service  *assistant.Service
		clock    time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		session = &fakeSession{}
		backend = &fakeBackend{sessions: []*fakeSession{session, {}}}
		recorder = &fakeRecorder{}
		clock = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

		service = assistant.NewService(backend, assistant.DefaultProfile(),
			assistant.WithRecorder(recorder),
			assistant.WithClock(func() time.Time {
				clock = clock.Add(250 * time.Millisecond)
				return clock
			}),
		)
	})

	It("starts a session lazily and returns text replies", func() {
		session.replies = []string{"MPP buka Senin - Jumat."}

		reply, err := service.Send(ctx, "jam buka?", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(assistant.TextReply("MPP buka Senin - Jumat.")))
		Expect(backend.started).To(Equal(1))
		Expect(backend.instructions[0]).To(ContainSubstring("namaLayanan"))
	})

	It("keeps one session across turns", func() {
		session.replies = []string{"satu", "dua"}

		_, err := service.Send(ctx, "pertama", nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Send(ctx, "kedua", nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(backend.started).To(Equal(1))
		Expect(session.sent).To(Equal([]string{"pertama", "kedua"}))
	})

	It("streams chunks and parses the full answer", func() {
		session.replies = []string{ktpDetails}

		var chunks []string
		reply, err := service.Send(ctx, "syarat ktp", func(chunk string) {
			chunks = append(chunks, chunk)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Join(chunks, "")).To(Equal(ktpDetails))
		Expect(len(chunks)).To(BeNumerically(">", 1))
		Expect(reply.Type).To(Equal(assistant.ReplyDetails))
	})

	It("records each exchange", func() {
		session.replies = []string{ktpDetails}

		_, err := service.Send(ctx, "syarat ktp", nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(recorder.logs).To(HaveLen(1))
		log := recorder.logs[0]
		Expect(log.Query).To(Equal("syarat ktp"))
		Expect(log.ServiceInquired).To(Equal("Penerbitan KTP Elektronik Baru"))
		Expect(log.ResponseTime).To(Equal(int64(250)))
		Expect(log.WasSuccessful).To(BeTrue())
		Expect(log.ID).NotTo(BeEmpty())
	})

	It("returns the fallback on transport errors", func() {
		session.err = errors.New("connection reset")

		reply, err := service.Send(ctx, "syarat paspor", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.IsFallback()).To(BeTrue())
		Expect(recorder.logs).To(HaveLen(1))
		Expect(recorder.logs[0].WasSuccessful).To(BeFalse())
		Expect(recorder.logs[0].ServiceInquired).To(Equal("Paspor"))
	})

	It("returns the fallback on empty answers", func() {
		reply, err := service.Send(ctx, "halo", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.IsFallback()).To(BeTrue())
	})

	It("returns the fallback when no session can be started", func() {
		backend.startErr = errors.New("invalid api key")

		reply, err := service.Send(ctx, "halo", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.IsFallback()).To(BeTrue())
		Expect(recorder.logs[0].ServiceInquired).To(Equal(assistant.GeneralCategory))
	})

	It("rejects blank messages without calling the backend", func() {
		_, err := service.Send(ctx, "   ", nil)
		Expect(err).To(MatchError(assistant.ErrEmptyMessage))
		Expect(backend.started).To(BeZero())
		Expect(recorder.logs).To(BeEmpty())
	})

	It("starts a new conversation after Reset", func() {
		session.replies = []string{"satu"}
		_, err := service.Send(ctx, "pertama", nil)
		Expect(err).NotTo(HaveOccurred())

		service.Reset()
		backend.sessions[1].replies = []string{"baru"}

		reply, err := service.Send(ctx, "lagi", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Text).To(Equal("baru"))
		Expect(backend.started).To(Equal(2))
	})

	It("replaces the session on StartSession", func() {
		Expect(service.StartSession(ctx)).To(Succeed())
		Expect(service.StartSession(ctx)).To(Succeed())
		Expect(backend.started).To(Equal(2))
	})
})
