package assistant

import (
	"strings"

	"github.com/papercomputeco/kiosk/pkg/deck"
)

// GeneralCategory is logged for queries that match no known service.
const GeneralCategory = "Informasi Umum"

// Classifier decides which service a query asked about.
type Classifier struct {
	profile  Profile
	keywords *deck.KeywordExtractor
}

func NewClassifier(profile Profile) *Classifier {
	return &Classifier{
		profile:  profile,
		keywords: deck.NewKeywordExtractor(profile.Vocabulary()),
	}
}

// Classify prefers the service named in a details reply, then the category
// of the first keyword in the query.
func (c *Classifier) Classify(query string, reply Reply) string {
	if reply.Type == ReplyDetails && reply.Details != nil {
		if name := strings.TrimSpace(reply.Details.NamaLayanan); name != "" {
			return name
		}
	}

	if words := c.keywords.Extract(query); len(words) > 0 {
		if category, ok := c.profile.CategoryFor(words[0]); ok {
			return category
		}
		return strings.ToUpper(words[0])
	}

	return GeneralCategory
}
