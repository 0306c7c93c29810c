// internal/parse/classify.go
package parse

import "strings"

// Kind is the lifecycle event a notification reports.
type Kind int

const (
	KindUnknown Kind = iota
	KindSubmitted
	KindViewed
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindSubmitted:
		return "submitted"
	case KindViewed:
		return "viewed"
	case KindClosed:
		return "closed"
	}
	return "unknown"
}

// Subject phrases the job board uses for each notification kind. These double
// as the provider-side subject filters for the corresponding passes.
const (
	SubjectSubmitted = "Your application was successfully submitted"
	SubjectViewed    = "has viewed your application for"
	SubjectClosed    = "has closed"
)

// Classify maps a decoded subject line to the lifecycle event it announces.
// Submitted subjects match exactly and case-sensitively; viewed and closed
// subjects are recognized by substring after whitespace collapse.
func Classify(subject string) Kind {
	if subject == SubjectSubmitted {
		return KindSubmitted
	}
	s := CollapseSpace(subject)
	switch {
	case strings.Contains(s, SubjectViewed):
		return KindViewed
	case strings.Contains(s, SubjectClosed):
		return KindClosed
	}
	return KindUnknown
}
