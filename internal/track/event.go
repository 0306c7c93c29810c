// internal/track/event.go
package track

import (
	"fmt"
	"strings"
	"time"

	"github.com/pmercado/jobtrack/internal/mail"
	"github.com/pmercado/jobtrack/internal/parse"
)

// Event is one classified notification, ready for reconciliation. Building
// an event is deterministic: the same message always yields the same event.
type Event struct {
	UID            mail.UID
	Kind           parse.Kind
	EmailDate      string // "YYYY-MM-DD"
	Position       string
	Company        string
	Location       string // submitted only
	JobLink        string // submitted only
	AppliedOnText  string // raw fragment, viewed/closed only
	AppliedOn      string // resolved "YYYY-MM-DD", empty if extraction missed
	ApplicantCount *int   // closed only
}

// BuildEvent normalizes, classifies, and extracts one message. An unknown
// subject yields a bare Event with Kind unknown and no extracted fields. A
// date that cannot be normalized fails the event; the pass boundary records
// it and moves on.
func BuildEvent(msg mail.Message, now time.Time) (Event, error) {
	ev := Event{UID: msg.UID, Kind: parse.Classify(msg.Subject)}
	if ev.Kind == parse.KindUnknown {
		return ev, nil
	}

	emailDate, err := parse.EmailDate(msg.RawDate)
	if err != nil {
		return Event{}, fmt.Errorf("header date: %w", err)
	}
	ev.EmailDate = emailDate

	fields := parse.Extract(ev.Kind, bodyText(msg))
	ev.Position = fields.Position
	ev.Company = fields.Company
	ev.Location = fields.Location
	ev.JobLink = fields.JobLink
	ev.AppliedOnText = fields.AppliedOnText
	ev.ApplicantCount = fields.ApplicantCount

	if fields.AppliedOnText != "" {
		resolved, err := parse.ResolveAppliedDate(fields.AppliedOnText, now)
		if err != nil {
			return Event{}, fmt.Errorf("applied-on date: %w", err)
		}
		ev.AppliedOn = resolved
	}
	return ev, nil
}

// bodyText picks the plain-text part of the message, skipping attachments,
// and returns it decoded and whitespace-normalized. Like the mailbox walk it
// mirrors, the last matching part wins. No text part means an empty body,
// which extraction treats as a miss on every field.
func bodyText(msg mail.Message) string {
	var chosen *mail.Part
	for i := range msg.Parts {
		p := &msg.Parts[i]
		if p.MediaType == "text/plain" && !strings.Contains(p.Disposition, "attachment") {
			chosen = p
		}
	}
	if chosen == nil {
		return ""
	}
	return parse.DecodeBody(chosen.Body, chosen.Encoding)
}
