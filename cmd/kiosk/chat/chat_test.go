package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/api"
	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/logger"
	"github.com/papercomputeco/kiosk/pkg/sse"
)

type fakeChatter struct {
	chunks []string
	reply  assistant.Reply
	err    error
	asked  []string
	resets int
	closed bool
}

func (f *fakeChatter) Send(_ context.Context, message string, onStream func(string)) (assistant.Reply, error) {
	f.asked = append(f.asked, message)
	for _, chunk := range f.chunks {
		onStream(chunk)
	}
	return f.reply, f.err
}

func (f *fakeChatter) Reset(context.Context) error {
	f.resets++
	return nil
}

func (f *fakeChatter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has a --model flag with the default Gemini model", func() {
		flag := NewChatCmd().Flags().Lookup("model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("m"))
		Expect(flag.DefValue).To(Equal(assistant.DefaultModel))
	})

	It("has an --api-target flag with the default API address", func() {
		flag := NewChatCmd().Flags().Lookup("api-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("http://localhost:8081"))
	})

	It("refuses local mode without an API key", func() {
		c := &chatCommander{model: assistant.DefaultModel}
		err := c.run(context.Background(), strings.NewReader(""), io.Discard, io.Discard)
		Expect(err).To(MatchError(ContainSubstring("no Gemini API key configured")))
	})
})

var _ = Describe("repl", func() {
	var (
		out    *bytes.Buffer
		errOut *bytes.Buffer
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		errOut = &bytes.Buffer{}
	})

	It("streams text answers as they arrive", func() {
		chat := &fakeChatter{
			chunks: []string{"Silakan ", "datang ke loket 3."},
			reply:  assistant.TextReply("Silakan datang ke loket 3."),
		}

		Expect(repl(context.Background(), chat, strings.NewReader("di mana loket KTP?\n/exit\n"), out, errOut)).To(Succeed())
		Expect(chat.asked).To(Equal([]string{"di mana loket KTP?"}))
		Expect(out.String()).To(ContainSubstring("Silakan datang ke loket 3."))
	})

	It("holds back JSON details and renders the card", func() {
		chat := &fakeChatter{
			chunks: []string{`{"namaLayanan":`, `"Pembuatan KTP"}`},
			reply: assistant.DetailsReply(&assistant.ServiceDetails{
				NamaLayanan: "Pembuatan KTP",
			}),
		}

		Expect(repl(context.Background(), chat, strings.NewReader("syarat ktp\n"), out, errOut)).To(Succeed())
		Expect(out.String()).NotTo(ContainSubstring(`"namaLayanan"`))
		Expect(out.String()).To(ContainSubstring("Pembuatan KTP"))
	})

	It("resets the conversation on /reset", func() {
		chat := &fakeChatter{}

		Expect(repl(context.Background(), chat, strings.NewReader("/reset\n/exit\n"), out, errOut)).To(Succeed())
		Expect(chat.resets).To(Equal(1))
		Expect(chat.asked).To(BeEmpty())
		Expect(out.String()).To(ContainSubstring("New conversation"))
	})

	It("skips blank lines", func() {
		chat := &fakeChatter{}

		Expect(repl(context.Background(), chat, strings.NewReader("\n   \n"), out, errOut)).To(Succeed())
		Expect(chat.asked).To(BeEmpty())
	})

	It("reports errors and keeps going", func() {
		chat := &fakeChatter{err: errors.New("connection refused")}

		Expect(repl(context.Background(), chat, strings.NewReader("halo\nhalo lagi\n"), out, errOut)).To(Succeed())
		Expect(chat.asked).To(HaveLen(2))
		Expect(errOut.String()).To(ContainSubstring("connection refused"))
	})
})

var _ = Describe("streamPrinter", func() {
	It("passes text through once the first non-blank chunk arrives", func() {
		out := &bytes.Buffer{}
		p := newStreamPrinter(out)

		p.Write("  ")
		Expect(p.Printed()).To(BeFalse())
		p.Write("Halo")
		p.Write("!")

		Expect(out.String()).To(Equal("  Halo!"))
		Expect(p.Printed()).To(BeTrue())
	})

	It("suppresses fenced JSON", func() {
		out := &bytes.Buffer{}
		p := newStreamPrinter(out)

		p.Write("```json\n{")
		p.Write(`"namaLayanan":"KTP"}`)

		Expect(out.String()).To(BeEmpty())
		Expect(p.Printed()).To(BeFalse())
	})
})

var _ = Describe("remoteChat", func() {
	var (
		server   *httptest.Server
		requests []string
		resets   int
	)

	BeforeEach(func() {
		requests = nil
		resets = 0

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()

			switch r.URL.Path {
			case "/v1/chat/stream":
				Expect(r.Method).To(Equal(http.MethodPost))

				var req api.ChatRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				requests = append(requests, req.Message)

				if req.Message == "rusak" {
					w.WriteHeader(http.StatusServiceUnavailable)
					Expect(json.NewEncoder(w).Encode(api.ErrorResponse{Error: "chat assistant is not configured"})).To(Succeed())
					return
				}

				w.Header().Set("Content-Type", "text/event-stream")
				Expect(sse.Write(w, sse.Event{Type: api.EventChunk, Data: "Buka "})).To(Succeed())
				Expect(sse.Write(w, sse.Event{Type: api.EventChunk, Data: "pukul 08.00."})).To(Succeed())

				data, err := json.Marshal(assistant.TextReply("Buka pukul 08.00."))
				Expect(err).NotTo(HaveOccurred())
				Expect(sse.Write(w, sse.Event{Type: api.EventReply, Data: string(data)})).To(Succeed())

			case "/v1/chat/reset":
				resets++
				_, _ = io.WriteString(w, `{"status":"reset"}`)

			default:
				http.NotFound(w, r)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("relays chunk events and returns the final reply", func() {
		chat := newRemoteChat(server.URL+"/", logger.Nop())

		var chunks []string
		reply, err := chat.Send(context.Background(), "jam buka?", func(chunk string) {
			chunks = append(chunks, chunk)
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(requests).To(Equal([]string{"jam buka?"}))
		Expect(chunks).To(Equal([]string{"Buka ", "pukul 08.00."}))
		Expect(reply).To(Equal(assistant.TextReply("Buka pukul 08.00.")))
	})

	It("surfaces API error messages", func() {
		chat := newRemoteChat(server.URL, logger.Nop())

		_, err := chat.Send(context.Background(), "rusak", nil)
		Expect(err).To(MatchError(ContainSubstring("status 503: chat assistant is not configured")))
	})

	It("rejects blank messages without calling the API", func() {
		chat := newRemoteChat(server.URL, logger.Nop())

		_, err := chat.Send(context.Background(), "  ", nil)
		Expect(err).To(MatchError(assistant.ErrEmptyMessage))
		Expect(requests).To(BeEmpty())
	})

	It("resets the server conversation", func() {
		chat := newRemoteChat(server.URL, logger.Nop())

		Expect(chat.Reset(context.Background())).To(Succeed())
		Expect(resets).To(Equal(1))
	})

	It("drives the REPL end to end", func() {
		chat := newRemoteChat(server.URL, logger.Nop())
		out := &bytes.Buffer{}

		Expect(repl(context.Background(), chat, strings.NewReader("jam buka?\n/exit\n"), out, io.Discard)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Buka pukul 08.00."))
	})
})
