// internal/track/report.go
package track

import (
	"errors"
	"fmt"

	"github.com/pmercado/jobtrack/internal/mail"
)

// Failure records one message that could not be processed. Failures do not
// stop a pass; they are aggregated here.
type Failure struct {
	UID mail.UID
	Err error
}

// Report summarizes one lifecycle pass.
type Report struct {
	Pass      string
	Searched  int // messages the mailbox query returned
	Applied   int // events that mutated the ledger
	Skipped   int // unknown or off-pass subjects
	Unmatched int // viewed/closed events no row satisfied
	Failures  []Failure
}

// Err aggregates the per-message failures, nil when there were none.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("uid %d: %w", f.UID, f.Err))
	}
	return fmt.Errorf("%s pass: %w", r.Pass, errors.Join(errs...))
}
