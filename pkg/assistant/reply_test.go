package assistant_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/kiosk/pkg/assistant"
)

const ktpDetails = `{
  "namaLayanan": "Penerbitan KTP Elektronik Baru",
  "persyaratan": ["Fotokopi KK", "Surat pengantar RT/RW"],
  "sistemMekanismeProsedur": ["Ambil antrian", "Perekaman biometrik"],
  "jangkaWaktu": "1 hari kerja",
  "lokasiGerai": "Gerai Disdukcapil",
  "biaya": "Gratis"
}`

var _ = Describe("ParseReply", func() {
	It("rejects blank output", func() {
		_, err := assistant.ParseReply("  \n ")
		Expect(err).To(MatchError(assistant.ErrEmptyResponse))
	})

	It("returns plain text trimmed", func() {
		reply, err := assistant.ParseReply("  MPP buka pukul 08:00.  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(assistant.TextReply("MPP buka pukul 08:00.")))
	})

	It("decodes service details", func() {
		reply, err := assistant.ParseReply("\n" + ktpDetails + "\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Type).To(Equal(assistant.ReplyDetails))
		Expect(reply.Details.NamaLayanan).To(Equal("Penerbitan KTP Elektronik Baru"))
		Expect([]string(reply.Details.Persyaratan)).To(HaveLen(2))
		Expect(reply.Details.Biaya).To(Equal("Gratis"))
		Expect(reply.Details.DasarHukum).To(BeNil())
	})

	It("accepts a single string where a list is expected", func() {
		reply, err := assistant.ParseReply(`{"namaLayanan": "SKCK", "persyaratan": "KTP asli"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Type).To(Equal(assistant.ReplyDetails))
		Expect([]string(reply.Details.Persyaratan)).To(Equal([]string{"KTP asli"}))
	})

	It("treats an empty requirements list as present", func() {
		reply, err := assistant.ParseReply(`{"namaLayanan": "Legalisir", "persyaratan": []}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Type).To(Equal(assistant.ReplyDetails))
		Expect(reply.Details.Persyaratan).To(BeEmpty())
	})

	DescribeTable("falls back to text",
		func(raw string) {
			reply, err := assistant.ParseReply(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Type).To(Equal(assistant.ReplyText))
			Expect(reply.Text).To(Equal(raw))
		},
		Entry("invalid JSON", `{"namaLayanan": "KTP",}`),
		Entry("missing persyaratan", `{"namaLayanan": "KTP"}`),
		Entry("null persyaratan", `{"namaLayanan": "KTP", "persyaratan": null}`),
		Entry("empty string persyaratan", `{"namaLayanan": "KTP", "persyaratan": ""}`),
		Entry("empty namaLayanan", `{"namaLayanan": "", "persyaratan": []}`),
		Entry("wrapped in prose", `Berikut: {"namaLayanan": "KTP", "persyaratan": []}`),
	)

	It("renders details as markdown", func() {
		reply, err := assistant.ParseReply(ktpDetails)
		Expect(err).NotTo(HaveOccurred())

		md := reply.Markdown()
		Expect(md).To(HavePrefix("## Penerbitan KTP Elektronik Baru\n"))
		Expect(md).To(ContainSubstring("### Persyaratan\n\n1. Fotokopi KK\n2. Surat pengantar RT/RW\n"))
		Expect(md).To(ContainSubstring("### Biaya\n\nGratis\n"))
		Expect(md).NotTo(ContainSubstring("Dasar Hukum"))
	})

	It("recognizes the fallback reply", func() {
		Expect(assistant.TextReply(assistant.FallbackMessage).IsFallback()).To(BeTrue())
		Expect(assistant.TextReply("halo").IsFallback()).To(BeFalse())
	})
})
