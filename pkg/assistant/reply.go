package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown to the user whenever the backend fails.
const FallbackMessage = "Maaf, terjadi sedikit kendala pada sistem. Bisakah Anda mencoba bertanya dengan cara lain?"

// ErrEmptyResponse is returned when the backend answers with blank text.
var ErrEmptyResponse = errors.New("API returned an empty response")

// ServiceDetails is the structured answer the model gives for explicit
// service requests. Keys match the JSON the model is instructed to emit.
type ServiceDetails struct {
	NamaLayanan             string     `json:"namaLayanan"`
	Persyaratan             stringList `json:"persyaratan"`
	SistemMekanismeProsedur stringList `json:"sistemMekanismeProsedur"`
	JangkaWaktu             string     `json:"jangkaWaktu"`
	LokasiGerai             string     `json:"lokasiGerai"`
	Biaya                   string     `json:"biaya,omitempty"`
	DasarHukum              stringList `json:"dasarHukum,omitempty"`
	CatatanTambahan         string     `json:"catatanTambahan,omitempty"`
}

// stringList decodes either a JSON array of strings or a single string.
// null and "" leave the list nil so the field counts as absent.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*l = stringList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if many == nil {
		many = []string{}
	}
	*l = many
	return nil
}

type ReplyType string

const (
	ReplyDetails ReplyType = "details"
	ReplyText    ReplyType = "text"
)

// Reply is one assistant answer: either service details or plain text.
type Reply struct {
	Type    ReplyType       `json:"type"`
	Details *ServiceDetails `json:"details,omitempty"`
	Text    string          `json:"text,omitempty"`
}

func TextReply(text string) Reply {
	return Reply{Type: ReplyText, Text: text}
}

func DetailsReply(details *ServiceDetails) Reply {
	return Reply{Type: ReplyDetails, Details: details}
}

// IsFallback reports whether the reply is the generic failure apology.
func (r Reply) IsFallback() bool {
	return r.Type == ReplyText && r.Text == FallbackMessage
}

// LooksLikeJSON reports whether text is shaped like a JSON object.
func LooksLikeJSON(text string) bool {
	return strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")
}

// ParseReply classifies raw model output. Text shaped like a JSON object
// becomes service details when it decodes and names both the service and
// its requirements; anything else is returned as trimmed text.
func ParseReply(raw string) (Reply, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Reply{}, ErrEmptyResponse
	}

	if LooksLikeJSON(text) {
		if details, err := decodeDetails(text); err == nil {
			return DetailsReply(details), nil
		}
	}

	return TextReply(text), nil
}

func decodeDetails(text string) (*ServiceDetails, error) {
	var details ServiceDetails
	if err := json.Unmarshal([]byte(text), &details); err != nil {
		return nil, fmt.Errorf("decode service details: %w", err)
	}
	if strings.TrimSpace(details.NamaLayanan) == "" || details.Persyaratan == nil {
		return nil, errors.New("service details missing namaLayanan or persyaratan")
	}
	return &details, nil
}
