// internal/ledger/memory.go
package ledger

import "fmt"

// MemoryStore keeps the ledger in process memory. It backs tests and dry
// runs; nothing survives the process.
type MemoryStore struct {
	Records     []Record
	Checkpoints map[string]uint32
	Persists    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Checkpoints: map[string]uint32{}}
}

func (s *MemoryStore) Load() ([]Record, error) {
	return append([]Record(nil), s.Records...), nil
}

func (s *MemoryStore) Append(rec Record) error {
	s.Records = append(s.Records, rec)
	return nil
}

func (s *MemoryStore) Update(row int, patch Patch) error {
	if row < 0 || row >= len(s.Records) {
		return fmt.Errorf("update row %d: ledger has %d rows", row, len(s.Records))
	}
	rec := &s.Records[row]
	if patch.ViewedDate != nil {
		rec.ViewedDate = *patch.ViewedDate
	}
	if patch.ClosedDate != nil {
		rec.ClosedDate = *patch.ClosedDate
	}
	if patch.ApplicantCount != nil {
		rec.ApplicantCount = patch.ApplicantCount
	}
	return nil
}

func (s *MemoryStore) Checkpoint(pass string) (uint32, error) {
	return s.Checkpoints[pass], nil
}

func (s *MemoryStore) SetCheckpoint(pass string, uid uint32) error {
	if s.Checkpoints == nil {
		s.Checkpoints = map[string]uint32{}
	}
	s.Checkpoints[pass] = uid
	return nil
}

func (s *MemoryStore) Persist() error {
	s.Persists++
	return nil
}

var _ Store = (*MemoryStore)(nil)
