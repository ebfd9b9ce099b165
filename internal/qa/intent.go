package qa

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a question, driving how the answer
// is composed from retrieved evidence.
type Intent string

const (
	IntentWhatIs     Intent = "what-is"
	IntentNumeric    Intent = "numeric"
	IntentWho        Intent = "who"
	IntentWhen       Intent = "when"
	IntentWhere      Intent = "where"
	IntentYesNo      Intent = "yes-no"
	IntentList       Intent = "list"
	IntentComparison Intent = "comparison"
	IntentGeneric    Intent = "generic"
)

var intentCues = []struct {
	intent Intent
	cues   []string
}{
	{IntentComparison, []string{"compare", "difference between", "versus", " vs ", "higher", "lower"}},
	{IntentNumeric, []string{"how much", "how many", "total", "sum", "amount", "average"}},
	{IntentYesNo, []string{"is there", "are there", "does the", "did the", "has the", "is the form", "was the"}},
	{IntentWho, []string{"who", "whose"}},
	{IntentWhen, []string{"when", "what date", "date of"}},
	{IntentWhere, []string{"where", "address", "location"}},
	{IntentList, []string{"list", "which fields", "what fields", "all of the", "enumerate"}},
	{IntentWhatIs, []string{"what is", "what's", "what are", "what was"}},
}

// ClassifyIntent buckets a question by its leading cue phrases. Earlier
// cue groups are more specific and win, so "how much is the total" is
// numeric even though it also starts like a what-is question.
func ClassifyIntent(question string) Intent {
	q := strings.ToLower(question)
	for _, group := range intentCues {
		for _, cue := range group.cues {
			if strings.Contains(q, cue) {
				return group.intent
			}
		}
	}
	return IntentGeneric
}

var whatSubjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what is (?:the |an? )?(.+?)\s*\??$`),
	regexp.MustCompile(`what's (?:the |an? )?(.+?)\s*\??$`),
	regexp.MustCompile(`what (?:are|was|were) (?:the |an? )?(.+?)\s*\??$`),
}

// questionSubject pulls the noun phrase out of a what-is question, e.g.
// "what is the total income?" yields "total income".
func questionSubject(question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, p := range whatSubjectPatterns {
		if m := p.FindStringSubmatch(q); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
