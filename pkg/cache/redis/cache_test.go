package redis_test

import (
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/cache/redis"
	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// redisAddr returns the Redis address from environment or skips the test.
func redisAddr() string {
	addr := os.Getenv("KIOSK_TEST_REDIS_ADDR")
	if addr == "" {
		Skip("KIOSK_TEST_REDIS_ADDR not set, skipping Redis tests")
	}
	return addr
}

var _ = Describe("Cache", func() {
	var (
		ctx   context.Context
		cache *redis.Cache
		key   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		client, err := redis.Dial(ctx, redisAddr(), "", 0)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Close)

		cache = redis.NewCache(client, "kiosk-test")
		key = "logs-" + chatlog.New("x", "", 0, time.Now(), true).ID
		DeferCleanup(func() { _ = cache.Invalidate(ctx, key) })
	})

	It("misses unknown keys", func() {
		_, ok, err := cache.Get(ctx, key)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("round-trips logs", func() {
		at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
		logs := []chatlog.ChatLog{chatlog.New("syarat ktp", "KTP Elektronik", time.Second, at, true)}

		Expect(cache.Set(ctx, key, logs, time.Minute)).To(Succeed())

		got, ok, err := cache.Get(ctx, key)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(got).To(HaveLen(1))
		Expect(got[0].ID).To(Equal(logs[0].ID))
		Expect(got[0].Timestamp.Equal(at)).To(BeTrue())
	})

	It("expires entries", func() {
		Expect(cache.Set(ctx, key, []chatlog.ChatLog{}, 50*time.Millisecond)).To(Succeed())
		Eventually(func() bool {
			_, ok, _ := cache.Get(ctx, key)
			return ok
		}).WithTimeout(2 * time.Second).Should(BeFalse())
	})
})

var _ = Describe("Dial", func() {
	It("fails fast when nothing listens", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := redis.Dial(ctx, "127.0.0.1:1", "", 0)
		Expect(err).To(MatchError(ContainSubstring("ping redis")))
	})
})
