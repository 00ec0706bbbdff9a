package assistant

import (
	"fmt"
	"strings"
)

// Markdown renders the reply for terminals and markdown viewers.
func (r Reply) Markdown() string {
	if r.Type != ReplyDetails || r.Details == nil {
		return r.Text
	}

	d := r.Details
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", d.NamaLayanan)

	writeList(&b, "Persyaratan", d.Persyaratan)
	writeList(&b, "Sistem, Mekanisme & Prosedur", d.SistemMekanismeProsedur)
	writeField(&b, "Jangka Waktu", d.JangkaWaktu)
	writeField(&b, "Lokasi Gerai", d.LokasiGerai)
	writeField(&b, "Biaya", d.Biaya)
	writeList(&b, "Dasar Hukum", d.DasarHukum)
	writeField(&b, "Catatan Tambahan", d.CatatanTambahan)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
}

func writeField(b *strings.Builder, title, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n%s\n", title, value)
}
