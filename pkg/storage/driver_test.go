package storage_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/storage"
	"github.com/papercomputeco/kiosk/pkg/storage/inmemory"
)

var _ = Describe("ListOptions", func() {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	It("matches everything when unbounded", func() {
		Expect(storage.ListOptions{}.Matches(base)).To(BeTrue())
	})

	It("treats both bounds as inclusive", func() {
		opts := storage.ListOptions{Since: base, Until: base.Add(time.Hour)}
		Expect(opts.Matches(base)).To(BeTrue())
		Expect(opts.Matches(base.Add(time.Hour))).To(BeTrue())
		Expect(opts.Matches(base.Add(-time.Millisecond))).To(BeFalse())
		Expect(opts.Matches(base.Add(time.Hour + time.Millisecond))).To(BeFalse())
	})
})

var _ = Describe("FetchRecent", func() {
	It("returns only logs inside the lookback window", func() {
		ctx := context.Background()
		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		driver := inmemory.NewDriver()

		recent := chatlog.New("syarat ktp", "KTP", 100*time.Millisecond, now.AddDate(0, 0, -2), true)
		old := chatlog.New("syarat sim", "SIM", 100*time.Millisecond, now.AddDate(0, 0, -400), true)
		Expect(driver.Put(ctx, &recent)).To(Succeed())
		Expect(driver.Put(ctx, &old)).To(Succeed())

		logs, err := storage.FetchRecent(ctx, driver, 365, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].ID).To(Equal(recent.ID))
	})

	It("returns everything when days is zero", func() {
		ctx := context.Background()
		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		driver := inmemory.NewDriver()

		old := chatlog.New("syarat sim", "SIM", 0, now.AddDate(-3, 0, 0), true)
		Expect(driver.Put(ctx, &old)).To(Succeed())

		logs, err := storage.FetchRecent(ctx, driver, 0, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
	})
})

var _ = Describe("NotFoundError", func() {
	It("includes the id when present", func() {
		Expect(storage.NotFoundError{ID: "abc"}.Error()).To(Equal("chat log not found: abc"))
		Expect(storage.NotFoundError{}.Error()).To(Equal("chat log not found"))
	})
})
