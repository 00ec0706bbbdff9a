package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/deck"
)

func seedLogs() []chatlog.ChatLog {
	return []chatlog.ChatLog{
		{ID: "a", Query: "syarat ktp baru", ServiceInquired: "KTP Elektronik", ResponseTime: 1200, Timestamp: testNow.Add(-time.Hour), WasSuccessful: true},
		{ID: "b", Query: "jam buka sabtu", ServiceInquired: "Informasi Umum", ResponseTime: 900, Timestamp: testNow.AddDate(0, 0, -2), WasSuccessful: false},
		{ID: "c", Query: "perpanjang paspor", ServiceInquired: "Paspor", ResponseTime: 2000, Timestamp: testNow.AddDate(0, 0, -20), WasSuccessful: true},
	}
}

var _ = Describe("Dashboard handlers", func() {
	var server *Server

	BeforeEach(func() {
		server = newTestServer(nil, seedLogs()...)
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp := doRequest(server, http.MethodGet, "/ping", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body string
			decodeBody(resp, &body)
			Expect(body).To(Equal("pong"))
		})
	})

	Describe("GET /v1/dashboard", func() {
		It("defaults to the last 7 days", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var dashboard deck.Dashboard
			decodeBody(resp, &dashboard)
			Expect(dashboard.Range).To(Equal(deck.Range7Days))
			Expect(dashboard.CurrentCount).To(Equal(2))
			Expect(dashboard.MainStats.TotalSessions).To(Equal(2))
			Expect(dashboard.Failures).To(HaveLen(1))
			Expect(dashboard.Failures[0].ID).To(Equal("b"))
		})

		It("includes older logs for 30d", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard?range=30d", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var dashboard deck.Dashboard
			decodeBody(resp, &dashboard)
			Expect(dashboard.CurrentCount).To(Equal(3))
		})

		It("accepts a custom date range", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard?range=custom&from=2025-02-20&to=2025-02-20", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var dashboard deck.Dashboard
			decodeBody(resp, &dashboard)
			Expect(dashboard.CurrentCount).To(Equal(1))
		})

		It("rejects an unknown range", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard?range=decade", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var body ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(ContainSubstring("invalid time range"))
		})

		It("rejects a custom range without dates", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard?range=custom&from=2025-03-01", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects a malformed date", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard?range=custom&from=01-03-2025&to=2025-03-05", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var body ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(ContainSubstring("invalid from date"))
		})
	})

	Describe("GET /v1/dashboard/logs", func() {
		It("lists current-period logs newest first", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard/logs?range=7d", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body LogsResponse
			decodeBody(resp, &body)
			Expect(body.Count).To(Equal(2))
			Expect(body.Logs[0].ID).To(Equal("a"))
			Expect(body.Logs[1].ID).To(Equal("b"))
		})
	})

	Describe("GET /v1/dashboard/export/:kind", func() {
		It("downloads the failed queries as CSV", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard/export/failed", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(fiber.HeaderContentType)).To(Equal("text/csv; charset=utf-8"))
			Expect(resp.Header.Get(fiber.HeaderContentDisposition)).To(
				ContainSubstring(`attachment; filename="analytics_failed_7d_2025-03-12.csv"`))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("jam buka sabtu"))
			Expect(string(body)).NotTo(ContainSubstring("syarat ktp baru"))
		})

		It("downloads an xlsx workbook", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard/export/xlsx?range=30d", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(fiber.HeaderContentType)).To(HavePrefix("application/vnd.openxmlformats"))
			Expect(resp.Header.Get(fiber.HeaderContentDisposition)).To(ContainSubstring("analytics_30d_2025-03-12.xlsx"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			// xlsx files are zip archives.
			Expect(string(body[:2])).To(Equal("PK"))
		})

		It("rejects an unknown export kind", func() {
			resp := doRequest(server, http.MethodGet, "/v1/dashboard/export/pdf", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var body ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(ContainSubstring("unknown export kind"))
		})
	})

	Describe("unknown routes", func() {
		It("answers JSON 404", func() {
			resp := doRequest(server, http.MethodGet, "/v1/nope", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			var body ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).NotTo(BeEmpty())
		})
	})
})

var _ = Describe("NewServer", func() {
	It("requires a querier", func() {
		_, err := NewServer(Config{}, nil, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})
