package mail

import "context"

// Client is the narrow mailbox surface required by jobtrack.
type Client interface {
	Search(ctx context.Context, q Query) ([]UID, error)
	Fetch(ctx context.Context, uids []UID) ([]Message, error)
}
