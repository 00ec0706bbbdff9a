package assistant

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes the kiosk the assistant speaks for.
type Profile struct {
	Name           string           `yaml:"name"`
	Hours          string           `yaml:"hours"`
	Holidays       string           `yaml:"holidays"`
	Address        string           `yaml:"address"`
	OnlineGuidance string           `yaml:"online_guidance"`
	Refusal        string           `yaml:"refusal"`
	Keywords       []KeywordMapping `yaml:"keywords"`
}

// KeywordMapping ties a tracked keyword to the service category logged when
// a query mentions it.
type KeywordMapping struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// DefaultProfile is the Mal Pelayanan Publik Kabupaten Pandeglang kiosk.
func DefaultProfile() Profile {
	return Profile{
		Name:     "Mal Pelayanan Publik (MPP) Kabupaten Pandeglang",
		Hours:    "Senin - Jumat, pukul 08:00 - 15:00 WIB.",
		Holidays: "Sabtu, Minggu, dan tanggal merah libur.",
		Address:  "Jl. Jenderal Sudirman No. 1, Pandeglang, Banten.",
		OnlineGuidance: "Untuk pertanyaan tentang pendaftaran 'online', arahkan pengguna untuk memeriksa " +
			"situs web resmi instansi terkait (misalnya, M-Paspor untuk imigrasi), karena MPP adalah " +
			"lokasi pelayanan fisik untuk verifikasi dan proses akhir.",
		Refusal: "Maaf, saya hanya bisa memberikan informasi seputar layanan di MPP Pandeglang. " +
			"Ada layanan yang bisa saya bantu?",
		Keywords: []KeywordMapping{
			{Keyword: "ktp", Category: "KTP Elektronik"},
			{Keyword: "sim", Category: "SIM"},
			{Keyword: "skck", Category: "SKCK"},
			{Keyword: "bpjs", Category: "BPJS Kesehatan"},
			{Keyword: "paspor", Category: "Paspor"},
			{Keyword: "pajak", Category: "Pajak Kendaraan"},
			{Keyword: "usaha", Category: "Izin Usaha (NIB)"},
			{Keyword: "nikah", Category: "Pencatatan Nikah"},
		},
	}
}

// LoadProfile reads a YAML profile from path. Fields left empty in the file
// keep their default values. An empty path returns DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var override Profile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}

	profile.merge(override)
	return profile, nil
}

func (p *Profile) merge(o Profile) {
	for dst, src := range map[*string]string{
		&p.Name:           o.Name,
		&p.Hours:          o.Hours,
		&p.Holidays:       o.Holidays,
		&p.Address:        o.Address,
		&p.OnlineGuidance: o.OnlineGuidance,
		&p.Refusal:        o.Refusal,
	} {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	if len(o.Keywords) > 0 {
		p.Keywords = o.Keywords
	}
}

// Vocabulary returns the tracked keywords in profile order.
func (p Profile) Vocabulary() []string {
	words := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		words = append(words, k.Keyword)
	}
	return words
}

// CategoryFor returns the category mapped to keyword, if any.
func (p Profile) CategoryFor(keyword string) (string, bool) {
	for _, k := range p.Keywords {
		if strings.EqualFold(k.Keyword, keyword) && k.Category != "" {
			return k.Category, true
		}
	}
	return "", false
}
