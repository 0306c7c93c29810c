// internal/ledger/record.go
package ledger

// Record is one application row. Dates are "YYYY-MM-DD" strings, empty when
// unset; each lifecycle date is written at most once, by its own pass.
type Record struct {
	UID            uint32 // mailbox UID of the submitted notification
	Company        string
	Position       string
	SubmittedDate  string
	ViewedDate     string
	ClosedDate     string
	ApplicantCount *int
	Location       string
	JobLink        string
}
