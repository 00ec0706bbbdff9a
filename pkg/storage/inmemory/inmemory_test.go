package inmemory_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/storage"
	"github.com/papercomputeco/kiosk/pkg/storage/inmemory"
)

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
		now    time.Time
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
		now = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	})

	Describe("Put", func() {
		It("stores a log and assigns an ID when missing", func() {
			log := chatlog.ChatLog{Query: "syarat ktp", Timestamp: now, WasSuccessful: true}
			Expect(driver.Put(ctx, &log)).To(Succeed())
			Expect(log.ID).NotTo(BeEmpty())
			Expect(driver.Count()).To(Equal(1))
		})

		It("ignores a log whose ID already exists", func() {
			log := chatlog.New("syarat ktp", "KTP", time.Second, now, true)
			Expect(driver.Put(ctx, &log)).To(Succeed())

			dup := log
			dup.Query = "changed"
			Expect(driver.Put(ctx, &dup)).To(Succeed())

			got, err := driver.Get(ctx, log.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Query).To(Equal("syarat ktp"))
			Expect(driver.Count()).To(Equal(1))
		})

		It("rejects invalid logs", func() {
			Expect(driver.Put(ctx, nil)).To(HaveOccurred())
			Expect(driver.Put(ctx, &chatlog.ChatLog{Timestamp: now})).To(HaveOccurred())
		})
	})

	Describe("Get", func() {
		It("returns NotFoundError for unknown IDs", func() {
			_, err := driver.Get(ctx, "missing")
			Expect(err).To(MatchError(storage.NotFoundError{ID: "missing"}))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := range 5 {
				log := chatlog.New("pertanyaan", "KTP", time.Second, now.Add(-time.Duration(i)*time.Hour), i%2 == 0)
				Expect(driver.Put(ctx, &log)).To(Succeed())
			}
		})

		It("returns logs newest first", func() {
			logs, err := driver.List(ctx, storage.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(5))
			for i := 1; i < len(logs); i++ {
				Expect(logs[i-1].Timestamp.After(logs[i].Timestamp)).To(BeTrue())
			}
		})

		It("applies time bounds and limit", func() {
			logs, err := driver.List(ctx, storage.ListOptions{
				Since: now.Add(-3 * time.Hour),
				Until: now.Add(-time.Hour),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(3))

			logs, err = driver.List(ctx, storage.ListOptions{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))
			Expect(logs[0].Timestamp).To(Equal(now))
		})
	})
})
