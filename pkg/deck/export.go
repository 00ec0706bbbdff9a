package deck

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// ExportKind names a dashboard export.
type ExportKind string

const (
	ExportAll     ExportKind = "all"
	ExportSummary ExportKind = "summary"
	ExportFailed  ExportKind = "failed"
	ExportXLSX    ExportKind = "xlsx"
)

// utf8BOM lets spreadsheet apps detect UTF-8 in CSV files.
const utf8BOM = "\uFEFF"

const (
	statusSucceeded = "Berhasil"
	statusFailed    = "Gagal"
)

var (
	logHeader     = []string{"Tanggal & Waktu", "Pertanyaan", "Layanan Dicari", "Waktu Respons (ms)", "Status"}
	summaryHeader = []string{"Metrik", "Nilai", "Perubahan"}
)

// ParseExportKind validates an export kind name.
func ParseExportKind(value string) (ExportKind, error) {
	switch kind := ExportKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case ExportAll, ExportSummary, ExportFailed, ExportXLSX:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown export kind %q (want all, summary, failed or xlsx)", value)
	}
}

// ContentType returns the MIME type of the export.
func (k ExportKind) ContentType() string {
	if k == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportFilename builds the download filename, e.g.
// analytics_all_7d_2025-03-05.csv or analytics_7d_2025-03-05.xlsx.
func ExportFilename(kind ExportKind, filters Filters, now time.Time) string {
	date := now.Format(dateLayout)
	if kind == ExportXLSX {
		return fmt.Sprintf("analytics_%s_%s.xlsx", RangeLabel(filters), date)
	}
	return fmt.Sprintf("analytics_%s_%s_%s.csv", kind, RangeLabel(filters), date)
}

// LogRows returns one row per log. withStatus adds the Status column.
func LogRows(logs []chatlog.ChatLog, withStatus bool) [][]string {
	rows := make([][]string, 0, len(logs)+1)
	if withStatus {
		rows = append(rows, logHeader)
	} else {
		rows = append(rows, logHeader[:len(logHeader)-1])
	}

	for _, log := range logs {
		row := []string{
			FormatTimestamp(log.Timestamp),
			log.Query,
			log.ServiceInquired,
			strconv.FormatInt(log.ResponseTime, 10),
		}
		if withStatus {
			status := statusFailed
			if log.WasSuccessful {
				status = statusSucceeded
			}
			row = append(row, status)
		}
		rows = append(rows, row)
	}

	return rows
}

// FailedRows returns the failed-query table for the current period.
func FailedRows(current []chatlog.ChatLog) [][]string {
	failed := []chatlog.ChatLog{}
	for _, log := range current {
		if !log.WasSuccessful {
			failed = append(failed, log)
		}
	}
	return LogRows(failed, false)
}

// SummaryRows returns the summary table for a dashboard.
func SummaryRows(d *Dashboard) [][]string {
	stats := d.MainStats
	rows := [][]string{
		summaryHeader,
		{"Total Sesi Chat", strconv.Itoa(stats.TotalSessions), stats.SessionsChange.String()},
		{"Pengguna Unik (Estimasi)", strconv.Itoa(stats.UniqueUsers), stats.UsersChange.String()},
		{"Pertanyaan Tidak Terjawab", strconv.Itoa(stats.UnresolvedQueries), stats.UnresolvedChange.String()},
		{"Waktu Respons Rata-rata (ms)", strconv.FormatFloat(stats.AvgResponseTime, 'f', 2, 64), stats.ResponseTimeChange.String()},
		{"", "", ""},
		{"Top Layanan Dicari", "", ""},
	}

	for _, svc := range d.Services {
		share := 0.0
		if stats.TotalSessions > 0 {
			share = float64(svc.Value) / float64(stats.TotalSessions) * 100
		}
		rows = append(rows, []string{svc.Name, strconv.Itoa(svc.Value), strconv.FormatFloat(share, 'f', 1, 64) + "%"})
	}

	rows = append(rows, []string{"", "", ""}, []string{"Top Kata Kunci", "Jumlah", "Perubahan"})
	for _, kw := range d.Keywords {
		rows = append(rows, []string{kw.Keyword, strconv.Itoa(kw.Count), kw.Delta()})
	}

	return rows
}

// WriteCSV writes a CSV export of the given kind, prefixed with a BOM.
func WriteCSV(w io.Writer, kind ExportKind, d *Dashboard, current []chatlog.ChatLog) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	switch kind {
	case ExportAll:
		return writeRows(w, LogRows(current, true))
	case ExportFailed:
		return writeRows(w, FailedRows(current))
	case ExportSummary:
		// Only the data rows are force-quoted; the header stays plain.
		rows := SummaryRows(d)
		if err := writeRows(w, rows[:1]); err != nil {
			return err
		}
		return writeQuotedRows(w, rows[1:])
	default:
		return fmt.Errorf("export kind %q is not a csv export", kind)
	}
}

func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// writeQuotedRows quotes every cell. encoding/csv only quotes cells that
// need it.
func writeQuotedRows(w io.Writer, rows [][]string) error {
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
