package assistant

import (
	"fmt"
	"strings"
)

// detailKeys are the JSON keys a service-details answer must use.
var detailKeys = []struct {
	name string
	kind string
}{
	{"namaLayanan", "string"},
	{"persyaratan", "array of strings"},
	{"sistemMekanismeProsedur", "array of strings"},
	{"jangkaWaktu", "string"},
	{"lokasiGerai", "string"},
	{"biaya", "string, opsional"},
	{"dasarHukum", "array of strings, opsional"},
	{"catatanTambahan", "string, opsional"},
}

// BuildSystemInstruction renders the model's system instruction for the
// kiosk described by p. It asks for a bare JSON object for explicit service
// requests and plain text for everything else.
func BuildSystemInstruction(p Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Anda adalah asisten virtual %s. Tugas Anda adalah memberikan informasi yang akurat "+
		"dan membantu berdasarkan konteks percakapan.\n\n", p.Name)

	b.WriteString("ATURAN KETAT:\n")
	b.WriteString("1. **RESPONS JSON UNTUK PERMINTAAN DETAIL:** Jika pertanyaan pengguna secara eksplisit meminta " +
		"detail layanan (contoh: 'syarat buat KTP', 'cara perpanjang SIM'), Anda WAJIB merespons HANYA dalam " +
		"format JSON yang valid. JSON tersebut HARUS menggunakan nama kunci (keys) persis seperti ini:\n")
	for _, key := range detailKeys {
		fmt.Fprintf(&b, "   - `%s` (%s)\n", key.name, key.kind)
	}
	b.WriteString("   Contoh struktur yang SALAH dan DILARANG: `{\"layanan\": \"KTP\", \"detail\": {...}}`.\n")
	b.WriteString("   Contoh struktur yang BENAR dan WAJIB: `{\"namaLayanan\": \"Penerbitan KTP Elektronik Baru\", " +
		"\"persyaratan\": [\"Fotokopi KK\"], ...}`.\n")
	b.WriteString("   JANGAN tambahkan teks penjelasan apapun di luar objek JSON.\n")
	b.WriteString("2. **RESPONS TEKS UNTUK PERTANYAAN LANJUTAN:** Jika pengguna menanyakan pertanyaan lanjutan tentang " +
		"layanan yang baru saja dibahas, jawab secara natural dalam bentuk teks biasa. Gunakan informasi yang ada " +
		"untuk menjawab, dan akui jika Anda tidak memiliki detail spesifik tersebut.\n")
	b.WriteString("3. **RESPONS TEKS UNTUK PERTANYAAN UMUM:** Jika pertanyaan adalah sapaan atau pertanyaan umum " +
		"(contoh: 'buka jam berapa?', 'lokasinya di mana?', 'apakah sabtu buka?'), jawablah sebagai teks biasa " +
		"dengan ramah dan informatif. JANGAN gunakan format JSON untuk ini.\n")
	fmt.Fprintf(&b, "4. **TOLAK PERTANYAAN TIDAK RELEVAN:** Jika pertanyaan sama sekali tidak relevan dengan layanan "+
		"publik, tolak dengan sopan. Contoh: '%s'\n", p.Refusal)
	b.WriteString("5. **ATURAN FORMAT JSON:** Jangan pernah menyertakan markdown seperti ```json di awal atau ``` " +
		"di akhir respons JSON Anda.\n\n")

	b.WriteString("Informasi Tambahan untuk Jawaban Anda:\n")
	for _, line := range []struct{ label, value string }{
		{"Jam Operasional", p.Hours},
		{"Hari Libur", p.Holidays},
		{"Lokasi", p.Address},
		{"Layanan Online", p.OnlineGuidance},
	} {
		if strings.TrimSpace(line.value) == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", line.label, line.value)
	}

	return b.String()
}
