package deck

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// DefaultVocabulary lists the service keywords tracked when no kiosk
// profile overrides them.
func DefaultVocabulary() []string {
	return []string{"ktp", "sim", "skck", "bpjs", "paspor", "pajak", "usaha", "nikah"}
}

// KeywordExtractor finds vocabulary words in lower-cased queries.
type KeywordExtractor struct {
	vocabulary []string
	pattern    *regexp.Regexp
}

// NewKeywordExtractor compiles vocabulary into a word-boundary pattern. An
// empty vocabulary falls back to DefaultVocabulary.
func NewKeywordExtractor(vocabulary []string) *KeywordExtractor {
	words := make([]string, 0, len(vocabulary))
	seen := map[string]bool{}
	for _, word := range vocabulary {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	if len(words) == 0 {
		words = DefaultVocabulary()
	}

	quoted := make([]string, len(words))
	for i, word := range words {
		quoted[i] = regexp.QuoteMeta(word)
	}

	return &KeywordExtractor{
		vocabulary: words,
		pattern:    regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Vocabulary returns the normalized vocabulary.
func (e *KeywordExtractor) Vocabulary() []string {
	return append([]string(nil), e.vocabulary...)
}

// Extract returns every vocabulary occurrence in query, in order.
func (e *KeywordExtractor) Extract(query string) []string {
	return e.pattern.FindAllString(strings.ToLower(query), -1)
}

// TopKeywords counts keyword occurrences in both periods and returns the
// limit most frequent in the current one.
func (e *KeywordExtractor) TopKeywords(current, previous []chatlog.ChatLog, limit int) []KeywordCount {
	counts := map[string]*KeywordCount{}
	get := func(word string) *KeywordCount {
		kc, ok := counts[word]
		if !ok {
			kc = &KeywordCount{Keyword: word}
			counts[word] = kc
		}
		return kc
	}

	for _, log := range current {
		for _, word := range e.Extract(log.Query) {
			get(word).Count++
		}
	}
	for _, log := range previous {
		for _, word := range e.Extract(log.Query) {
			get(word).PrevCount++
		}
	}

	result := make([]KeywordCount, 0, len(counts))
	for _, kc := range counts {
		result = append(result, *kc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Keyword < result[j].Keyword
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}

// Delta renders the change in occurrences, prefixed with "+" when it grew.
func (k KeywordCount) Delta() string {
	diff := k.Count - k.PrevCount
	if k.Count > k.PrevCount {
		return "+" + strconv.Itoa(diff)
	}
	return strconv.Itoa(diff)
}
