package detect

import "strings"

// DefaultKeywords are the trigger terms that indicate an irregular loan.
// Order matters: detection reports the first keyword that matches.
var DefaultKeywords = []string{
	"mora", "vencido", "vencida", "atrasado", "atrasada", "deuda",
	"cobranza", "cobro", "penalidad", "interés moratorio", "embargo",
	"incumplimiento", "impago", "default", "atraso", "irregular",
}

// Result is the outcome of a keyword scan. Keyword is only set when
// Detected is true.
type Result struct {
	Detected bool   `json:"detected"`
	Keyword  string `json:"keyword,omitempty"`
}

// Detector scans page text for configured trigger keywords. It is
// stateless and safe for concurrent use.
type Detector struct {
	//keywords holds the configured form, which Detect reports; lowered
	//holds the matching form
	keywords []string
	lowered  []string
}

// NewDetector creates a Detector with the given keywords, matched as
// case-insensitive substrings in list order. If keywords is empty,
// DefaultKeywords is used.
func NewDetector(keywords []string) *Detector {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	d := &Detector{
		keywords: append([]string(nil), keywords...),
		lowered:  make([]string, len(keywords)),
	}
	for i, k := range keywords {
		d.lowered[i] = strings.ToLower(k)
	}
	return d
}

// Detect returns the first configured keyword that occurs in pageText.
// Empty or inaccessible page text is never an error: it simply does not
// match.
func (d *Detector) Detect(pageText string) Result {
	if pageText == "" {
		return Result{}
	}
	lowered := strings.ToLower(pageText)
	for i, k := range d.lowered {
		if strings.Contains(lowered, k) {
			return Result{Detected: true, Keyword: d.keywords[i]}
		}
	}
	return Result{}
}
