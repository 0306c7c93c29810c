// internal/mail/types.go
package mail

import "time"

// UID identifies a message within one mailbox. UIDs are unique per mailbox
// but not globally unique over time.
type UID uint32

// Part is one MIME part of a message. Body keeps the raw bytes exactly as
// fetched; transport decoding belongs to the parse package.
type Part struct {
	MediaType   string // e.g. "text/plain"
	Encoding    string // Content-Transfer-Encoding, e.g. "quoted-printable"
	Disposition string // "attachment" when the part is one
	Body        []byte
}

// Message is one notification as fetched from the mailbox.
type Message struct {
	UID     UID
	Subject string // RFC 2047 decoded
	RawDate string // Date header as sent, e.g. "Mon, 02 Jan 2024 03:04:05 +0000 (UTC)"
	Parts   []Part
}

// Query names the provider-side filters for one lifecycle pass.
type Query struct {
	From     string    // sender filter
	Since    time.Time // lower bound on the internal date
	Subject  string    // subject substring filter
	AfterUID UID       // only messages with a strictly greater UID
}
