// Package form normalizes loosely-phrased form values onto the contact
// form's closed vocabulary and validates field names before they reach a
// command registry.
package form

import "strings"

// Subject is one of the contact form's canonical subject categories.
type Subject string

const (
	SubjectGeneral  Subject = "general"
	SubjectSupport  Subject = "support"
	SubjectSales    Subject = "sales"
	SubjectFeedback Subject = "feedback"
)

type subjectPhrase struct {
	phrase  string
	subject Subject
}

// subjectTable maps spoken phrases to canonical subjects. Order matters:
// substring matching walks the table top to bottom, so earlier entries win
// when an utterance contains several phrases.
var subjectTable = []subjectPhrase{
	// General inquiry
	{"general", SubjectGeneral},
	{"general inquiry", SubjectGeneral},
	{"question", SubjectGeneral},
	{"inquiry", SubjectGeneral},
	{"information", SubjectGeneral},
	{"info", SubjectGeneral},
	{"ask", SubjectGeneral},
	{"asking", SubjectGeneral},
	{"about", SubjectGeneral},

	// Technical support
	{"support", SubjectSupport},
	{"technical support", SubjectSupport},
	{"technical", SubjectSupport},
	{"tech support", SubjectSupport},
	{"help", SubjectSupport},
	{"tech", SubjectSupport},
	{"assistance", SubjectSupport},
	{"issue", SubjectSupport},
	{"problem", SubjectSupport},
	{"bug", SubjectSupport},
	{"error", SubjectSupport},
	{"trouble", SubjectSupport},
	{"fix", SubjectSupport},
	{"broken", SubjectSupport},
	{"not working", SubjectSupport},

	// Sales
	{"sales", SubjectSales},
	{"purchase", SubjectSales},
	{"buy", SubjectSales},
	{"pricing", SubjectSales},
	{"cost", SubjectSales},
	{"price", SubjectSales},
	{"subscription", SubjectSales},
	{"order", SubjectSales},
	{"payment", SubjectSales},
	{"license", SubjectSales},
	{"upgrade", SubjectSales},

	// Feedback
	{"feedback", SubjectFeedback},
	{"suggestion", SubjectFeedback},
	{"comment", SubjectFeedback},
	{"feature request", SubjectFeedback},
	{"idea", SubjectFeedback},
	{"improvement", SubjectFeedback},
	{"feature", SubjectFeedback},
	{"recommend", SubjectFeedback},
	{"opinion", SubjectFeedback},
	{"review", SubjectFeedback},
}

// troublePhrases catch natural complaints that name no subject keyword,
// e.g. "I can't log in". All map to support.
var troublePhrases = []string{
	"need help",
	"having trouble",
	"not working",
	"can't",
	"cannot",
}

// NormalizeSubject resolves free text onto a canonical subject.
//
// Resolution order: exact table match of the lower-cased trimmed text,
// then substring containment of any table phrase, then the trouble
// heuristics, then the general catch-all for any remaining non-empty
// text. Empty text returns ok=false, which lets callers distinguish "no
// subject given" from "subject given but unrecognized".
func NormalizeSubject(text string) (Subject, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return "", false
	}

	for _, e := range subjectTable {
		if normalized == e.phrase {
			return e.subject, true
		}
	}

	for _, e := range subjectTable {
		if strings.Contains(normalized, e.phrase) {
			return e.subject, true
		}
	}

	for _, phrase := range troublePhrases {
		if strings.Contains(normalized, phrase) {
			return SubjectSupport, true
		}
	}

	return SubjectGeneral, true
}
