// internal/ledger/store.go
package ledger

// Patch carries the fields a viewed or closed event writes onto a matched
// row. Nil fields are left untouched.
type Patch struct {
	ViewedDate     *string
	ClosedDate     *string
	ApplicantCount *int
}

// Store is the durable ledger surface required by jobtrack. Load returns
// records in insertion order; row arguments index into that order. Persist
// flushes after each applied mutation, so one message's effect is durable
// before the next is processed.
type Store interface {
	Load() ([]Record, error)
	Append(rec Record) error
	Update(row int, patch Patch) error
	// Checkpoint returns the highest UID already processed for a pass,
	// zero when the pass has never run.
	Checkpoint(pass string) (uint32, error)
	SetCheckpoint(pass string, uid uint32) error
	Persist() error
}
