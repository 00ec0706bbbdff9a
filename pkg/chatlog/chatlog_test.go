package chatlog_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

var _ = Describe("ChatLog", func() {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	It("stores the response time in milliseconds and assigns an ID", func() {
		log := chatlog.New("syarat ktp", "KTP", 1500*time.Millisecond, now, true)
		Expect(log.ID).NotTo(BeEmpty())
		Expect(log.ResponseTime).To(Equal(int64(1500)))
		Expect(log.Validate()).To(Succeed())
	})

	It("rejects empty queries", func() {
		log := chatlog.ChatLog{Query: "  ", Timestamp: now}
		Expect(log.Validate()).To(MatchError(ContainSubstring("query is empty")))
	})

	It("rejects negative response times", func() {
		log := chatlog.ChatLog{Query: "sim", Timestamp: now, ResponseTime: -1}
		Expect(log.Validate()).To(MatchError(ContainSubstring("negative")))
	})

	It("rejects zero timestamps", func() {
		log := chatlog.ChatLog{Query: "sim"}
		Expect(log.Validate()).To(MatchError(ContainSubstring("timestamp")))
	})

	It("keeps an existing ID", func() {
		log := chatlog.ChatLog{ID: "fixed"}
		log.EnsureID()
		Expect(log.ID).To(Equal("fixed"))
	})

	It("sorts newest first with ID as tie breaker", func() {
		logs := []chatlog.ChatLog{
			{ID: "b", Timestamp: now},
			{ID: "c", Timestamp: now.Add(-time.Hour)},
			{ID: "a", Timestamp: now},
			{ID: "d", Timestamp: now.Add(time.Hour)},
		}
		chatlog.SortByTimestampDesc(logs)
		ids := []string{logs[0].ID, logs[1].ID, logs[2].ID, logs[3].ID}
		Expect(ids).To(Equal([]string{"d", "a", "b", "c"}))
	})
})
