// internal/ledger/match.go
package ledger

// MatchKey is the normalized projection of an event used for row matching.
// All comparisons are plain string equality.
type MatchKey struct {
	Company   string
	Position  string
	AppliedOn string // resolved applied-on date, empty when unreadable
}

// Tier is one fallback level of the matching policy.
type Tier struct {
	Name  string
	Match func(rec Record, key MatchKey) bool
}

// A row with no submitted date never satisfies a date tier.
func dateMatches(rec Record, key MatchKey) bool {
	return rec.SubmittedDate != "" && rec.SubmittedDate == key.AppliedOn
}

func companyDatePosition(rec Record, key MatchKey) bool {
	return rec.Company == key.Company && dateMatches(rec, key) && rec.Position == key.Position
}

// Ignores company: tolerates companies renaming themselves between the
// submission and the follow-up notification.
func datePosition(rec Record, key MatchKey) bool {
	return dateMatches(rec, key) && rec.Position == key.Position
}

// Ignores the date: tolerates a missing or garbled applied-on fragment.
func companyPosition(rec Record, key MatchKey) bool {
	return rec.Company == key.Company && rec.Position == key.Position
}

var (
	// ViewedTiers is strict on purpose: dropping a viewed event beats
	// stamping an unrelated row.
	ViewedTiers = []Tier{
		{Name: "company+date+position", Match: companyDatePosition},
	}

	// ClosedTiers fall back through progressively looser predicates.
	ClosedTiers = []Tier{
		{Name: "company+date+position", Match: companyDatePosition},
		{Name: "date+position", Match: datePosition},
		{Name: "company+position", Match: companyPosition},
	}
)

// Match scans records in ledger order and returns the index of the first
// record satisfying any tier, trying tiers strictest-first on each record.
// The tier name is returned for logging.
func Match(records []Record, key MatchKey, tiers []Tier) (row int, tier string, ok bool) {
	for i, rec := range records {
		for _, t := range tiers {
			if t.Match(rec, key) {
				return i, t.Name, true
			}
		}
	}
	return 0, "", false
}
