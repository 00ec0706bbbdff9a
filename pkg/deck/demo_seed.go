package deck

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/storage"
)

const DemoSQLitePath = "kiosk.demo.sqlite"

// DefaultDemoLogs is how many logs SeedDemo writes when asked for none.
const DefaultDemoLogs = 1200

type seedService struct {
	Name    string
	Weight  int
	Queries []string
}

var demoServices = []seedService{
	{Name: "KTP Elektronik", Weight: 24, Queries: []string{
		"Apa saja syarat membuat KTP baru?",
		"ktp saya hilang, bagaimana cara mengurusnya?",
		"Berapa lama proses cetak ulang KTP?",
	}},
	{Name: "Paspor", Weight: 16, Queries: []string{
		"Syarat membuat paspor untuk umroh",
		"Bagaimana cara daftar antrian paspor online?",
		"Perpanjang paspor apakah harus wawancara?",
	}},
	{Name: "SIM", Weight: 14, Queries: []string{
		"Perpanjangan SIM A di MPP bisa?",
		"Biaya membuat sim c baru berapa?",
	}},
	{Name: "SKCK", Weight: 12, Queries: []string{
		"Syarat SKCK untuk melamar kerja",
		"Apakah skck bisa dibuat di MPP Pandeglang?",
	}},
	{Name: "BPJS Kesehatan", Weight: 12, Queries: []string{
		"Cara mengaktifkan kembali BPJS yang nonaktif",
		"Pindah faskes bpjs bagaimana caranya?",
	}},
	{Name: "Pajak Kendaraan", Weight: 9, Queries: []string{
		"Bayar pajak motor tahunan syaratnya apa?",
		"Pajak kendaraan mati 2 tahun dendanya berapa?",
	}},
	{Name: "Izin Usaha (NIB)", Weight: 8, Queries: []string{
		"Cara membuat NIB untuk usaha kecil",
		"Izin usaha warung apakah perlu NIB?",
	}},
	{Name: "Pencatatan Nikah", Weight: 5, Queries: []string{
		"Syarat daftar nikah di KUA",
		"Dokumen apa saja untuk buku nikah?",
	}},
}

var demoUnanswered = []string{
	"Jam berapa loket tutup hari Sabtu?",
	"Apakah ada layanan antar dokumen ke rumah?",
	"Bisa bayar pakai QRIS di semua loket?",
	"Kenapa status berkas saya belum berubah?",
}

// SeedDemo writes n deterministic demo chat logs spread over the year
// before now. It refuses to write into a store that already holds logs
// unless force is set.
func SeedDemo(ctx context.Context, driver storage.Driver, now time.Time, n int, force bool) (int, error) {
	if n <= 0 {
		n = DefaultDemoLogs
	}

	if !force {
		existing, err := driver.List(ctx, storage.ListOptions{Limit: 1})
		if err != nil {
			return 0, fmt.Errorf("check existing data: %w", err)
		}
		if len(existing) > 0 {
			return 0, errors.New("store already has chat logs (use --force)")
		}
	}

	logs := DemoLogs(now, n)
	for i := range logs {
		if err := driver.Put(ctx, &logs[i]); err != nil {
			return i, fmt.Errorf("insert demo log: %w", err)
		}
	}

	return len(logs), nil
}

// DemoLogs generates n demo logs. The same now and n always yield the same
// queries, services and timestamps.
func DemoLogs(now time.Time, n int) []chatlog.ChatLog {
	rng := rand.New(rand.NewPCG(uint64(n), 0x6b696f736b))

	totalWeight := 0
	for _, svc := range demoServices {
		totalWeight += svc.Weight
	}

	logs := make([]chatlog.ChatLog, 0, n)
	for i := range n {
		// Skew toward recent days so short ranges have data.
		ageDays := int(rng.ExpFloat64() * 60)
		if ageDays > 364 {
			ageDays = rng.IntN(365)
		}
		at := now.AddDate(0, 0, -ageDays)
		at = time.Date(at.Year(), at.Month(), at.Day(), 8+rng.IntN(7), rng.IntN(60), rng.IntN(60), 0, now.Location())
		if at.After(now) {
			at = now.Add(-time.Duration(rng.IntN(3600)) * time.Second)
		}

		svc := pickService(rng.IntN(totalWeight))
		query := svc.Queries[rng.IntN(len(svc.Queries))]
		ok := rng.Float64() > 0.12
		if !ok && rng.IntN(2) == 0 {
			query = demoUnanswered[rng.IntN(len(demoUnanswered))]
		}
		latency := time.Duration(700+rng.IntN(2800)) * time.Millisecond

		log := chatlog.New(query, svc.Name, latency, at, ok)
		log.ID = fmt.Sprintf("demo-%05d", i)
		logs = append(logs, log)
	}

	return logs
}

func pickService(roll int) seedService {
	for _, svc := range demoServices {
		if roll < svc.Weight {
			return svc
		}
		roll -= svc.Weight
	}
	return demoServices[len(demoServices)-1]
}

// PrepareSQLitePath makes sure a demo database file can be created at path,
// removing an existing file when overwrite is set.
func PrepareSQLitePath(path string, overwrite bool) error {
	if isInMemorySQLite(path) {
		return nil
	}

	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("sqlite path is a directory: %s", path)
		}
		if overwrite {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove sqlite database: %w", err)
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat sqlite database: %w", err)
	}

	parent := filepath.Dir(path)
	if parent == "." || parent == "" {
		return nil
	}

	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory: %w", err)
	}

	return nil
}

func isInMemorySQLite(path string) bool {
	trimmed := strings.TrimSpace(path)
	if trimmed == ":memory:" {
		return true
	}

	return strings.HasPrefix(trimmed, "file::memory:")
}
