// internal/parse/extract.go
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Fields holds whatever a notification body yielded. Absent fields stay
// empty; extraction never fails.
type Fields struct {
	Position       string
	Company        string
	Location       string // submitted only
	JobLink        string // submitted only
	AppliedOnText  string // viewed/closed: raw fragment, year may be missing
	ApplicantCount *int   // closed only
}

var (
	submittedAnchor = regexp.MustCompile(`(?s)Your application for (.*?) was successfully submitted to (.*?)\. Each`)
	viewedAnchor    = regexp.MustCompile(`(?s)Your application for (.*?) was viewed by (.*?)\. Each`)
	closedAnchor    = regexp.MustCompile(`(?s)the (.*?) job you applied for at (.*?) has expired`)
	appliedOnRE     = regexp.MustCompile(`Applied on\s+([\d\s]{1,4}[A-Za-z\s]+)(\d{4})?`)
	applicantsRE    = regexp.MustCompile(`(?s)Application information\s*\[.*?\]\s*(\d+)\s+candidates applied`)
	doublePeriod    = regexp.MustCompile(`\.\.$`)
	locationJunk    = regexp.MustCompile(`[^\w\s,.-]`)
)

// Extract pulls the fields a notification of the given kind carries out of
// normalized body text.
func Extract(kind Kind, text string) Fields {
	var f Fields
	switch kind {
	case KindSubmitted:
		f.Position, f.Company = positionCompany(submittedAnchor, text)
		if f.Company != "" {
			f.JobLink, f.Location = linkLocation(text, f.Position, f.Company)
		}
	case KindViewed:
		f.Position, f.Company = positionCompany(viewedAnchor, text)
		f.AppliedOnText = appliedOn(text)
	case KindClosed:
		f.Position, f.Company = positionCompany(closedAnchor, text)
		f.AppliedOnText = appliedOn(text)
		if m := applicantsRE.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				f.ApplicantCount = &n
			}
		}
	}
	return f
}

func positionCompany(anchor *regexp.Regexp, text string) (position, company string) {
	m := anchor.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	position = CollapseSpace(m[1])
	// The sentence period lands right after the company name, so a company
	// ending in "." arrives doubled.
	company = CollapseSpace(doublePeriod.ReplaceAllString(strings.TrimSpace(m[2]), "."))
	return position, company
}

// linkLocation runs only once position and company are known: they act as
// literal anchors around the bracketed job URL.
func linkLocation(text, position, company string) (link, location string) {
	pattern := regexp.QuoteMeta(position) +
		`\s*\[\s*(https?://[^\]]+)\s*\]\s*` +
		regexp.QuoteMeta(company) +
		`\s*([\w\s,-]+)`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	link = strings.TrimSpace(m[1])
	location = CollapseSpace(locationJunk.ReplaceAllString(m[2], ""))
	return link, location
}

func appliedOn(text string) string {
	m := appliedOnRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	fragment := strings.TrimSpace(m[1])
	if m[2] != "" {
		fragment += " " + m[2]
	}
	return fragment
}
