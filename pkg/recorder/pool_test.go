package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/eventstream"
	"github.com/papercomputeco/kiosk/pkg/storage"
	"github.com/papercomputeco/kiosk/pkg/storage/inmemory"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*eventstream.ChatLoggedEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event *eventstream.ChatLoggedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

// blockingDriver holds every Put until release is closed.
type blockingDriver struct {
	*inmemory.Driver
	release chan struct{}
}

func (d *blockingDriver) Put(ctx context.Context, log *chatlog.ChatLog) error {
	<-d.release
	return d.Driver.Put(ctx, log)
}

type failingDriver struct {
	*inmemory.Driver
}

func (d *failingDriver) Put(context.Context, *chatlog.ChatLog) error {
	return errors.New("disk full")
}

func testLog(i int) chatlog.ChatLog {
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return chatlog.New(fmt.Sprintf("pertanyaan %d", i), "KTP Elektronik", time.Second, at, true)
}

var _ = Describe("Pool", func() {
	var leakOpt goleak.Option

	BeforeEach(func() {
		leakOpt = goleak.IgnoreCurrent()
	})

	AfterEach(func() {
		Expect(goleak.Find(leakOpt)).To(Succeed())
	})

	It("requires a driver", func() {
		_, err := NewPool(&Config{})
		Expect(err).To(HaveOccurred())
	})

	It("applies defaults", func() {
		cfg := &Config{Driver: inmemory.NewDriver()}
		wp, err := NewPool(cfg)
		Expect(err).NotTo(HaveOccurred())
		defer wp.Close()

		Expect(cfg.NumWorkers).To(Equal(uint(3)))
		Expect(cfg.QueueSize).To(Equal(uint(256)))
		Expect(cap(wp.queue)).To(Equal(256))
	})

	It("stores every enqueued log before Close returns", func() {
		driver := inmemory.NewDriver()
		publisher := &capturePublisher{}
		wp, err := NewPool(&Config{
			Driver:    driver,
			Publisher: publisher,
			Source:    eventstream.EventSource{Kiosk: "MPP Pandeglang"},
		})
		Expect(err).NotTo(HaveOccurred())

		for i := range 20 {
			Expect(wp.Enqueue(testLog(i))).To(BeTrue())
		}
		wp.Close()

		Expect(driver.Count()).To(Equal(20))
		Expect(publisher.events).To(HaveLen(20))
		Expect(publisher.events[0].Source.Kiosk).To(Equal("MPP Pandeglang"))

		logs, err := driver.List(context.Background(), storage.ListOptions{Limit: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs[0].Query).To(Equal("pertanyaan 19"))
	})

	It("drops logs when the queue is full", func() {
		driver := &blockingDriver{Driver: inmemory.NewDriver(), release: make(chan struct{})}
		wp, err := NewPool(&Config{Driver: driver, NumWorkers: 1, QueueSize: 1})
		Expect(err).NotTo(HaveOccurred())

		// One log is held by the worker and one fills the queue.
		Expect(wp.Enqueue(testLog(0))).To(BeTrue())
		Eventually(func() int { return len(wp.queue) }).Should(BeZero())
		Expect(wp.Enqueue(testLog(1))).To(BeTrue())
		Expect(wp.Enqueue(testLog(2))).To(BeFalse())

		close(driver.release)
		wp.Close()
		Expect(driver.Count()).To(Equal(2))
	})

	It("skips publishing when storage fails", func() {
		publisher := &capturePublisher{}
		wp, err := NewPool(&Config{Driver: &failingDriver{Driver: inmemory.NewDriver()}, Publisher: publisher})
		Expect(err).NotTo(HaveOccurred())

		Expect(wp.Enqueue(testLog(0))).To(BeTrue())
		wp.Close()
		Expect(publisher.events).To(BeEmpty())
	})

	It("keeps stored logs when publishing fails", func() {
		driver := inmemory.NewDriver()
		wp, err := NewPool(&Config{Driver: driver, Publisher: &capturePublisher{err: errors.New("broker down")}})
		Expect(err).NotTo(HaveOccurred())

		Expect(wp.Enqueue(testLog(0))).To(BeTrue())
		wp.Close()
		Expect(driver.Count()).To(Equal(1))
	})
})
