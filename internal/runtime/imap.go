// internal/runtime/imap.go — adapts an IMAP connection to our small interface
package runtime

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	netmail "net/mail"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/pmercado/jobtrack/internal/mail"
)

// IMAPClient implements mail.Client over a logged-in IMAP session with the
// inbox selected read-only.
type IMAPClient struct {
	c *client.Client
}

// Dial connects over TLS, authenticates, and selects INBOX.
func Dial(addr, username, password string) (*IMAPClient, error) {
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := c.Login(username, password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("login %s: %w", username, err)
	}
	if _, err := c.Select("INBOX", true); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("select inbox: %w", err)
	}
	return &IMAPClient{c: c}, nil
}

func (ic *IMAPClient) Close() error { return ic.c.Logout() }

// Search runs a UID search combining the query's sender, since-date,
// subject, and UID-floor criteria.
func (ic *IMAPClient) Search(ctx context.Context, q mail.Query) ([]mail.UID, error) {
	// go-imap commands do not take a context; honor cancellation between
	// commands.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	criteria := imap.NewSearchCriteria()
	if q.From != "" {
		criteria.Header.Add("From", q.From)
	}
	if q.Subject != "" {
		criteria.Header.Add("Subject", q.Subject)
	}
	if !q.Since.IsZero() {
		criteria.Since = q.Since
	}
	if q.AfterUID > 0 {
		set := new(imap.SeqSet)
		set.AddRange(uint32(q.AfterUID)+1, 0) // n:*
		criteria.Uid = set
	}
	raw, err := ic.c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("uid search: %w", err)
	}
	uids := make([]mail.UID, 0, len(raw))
	for _, u := range raw {
		uids = append(uids, mail.UID(u))
	}
	return uids, nil
}

// Fetch retrieves full messages by UID and splits them into MIME parts. Part
// bodies keep their transport encoding; decoding is the parser's job.
func (ic *IMAPClient) Fetch(ctx context.Context, uids []mail.UID) ([]mail.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, nil
	}
	set := new(imap.SeqSet)
	for _, u := range uids {
		set.AddNum(uint32(u))
	}
	section := &imap.BodySectionName{Peek: true} // don't flag messages seen
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	ch := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() { done <- ic.c.UidFetch(set, items, ch) }()
	return collectFetched(ch, done, section)
}

// collectFetched parses streamed fetch responses. On a parse error it drains
// the channel first; the fetch goroutine blocks on sends until the channel is
// empty and would otherwise never exit.
func collectFetched(ch <-chan *imap.Message, done <-chan error, section *imap.BodySectionName) ([]mail.Message, error) {
	var out []mail.Message
	for msg := range ch {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		parsed, err := parseMessage(mail.UID(msg.Uid), body)
		if err != nil {
			for range ch {
			}
			<-done
			return nil, fmt.Errorf("parse uid %d: %w", msg.Uid, err)
		}
		out = append(out, parsed)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("uid fetch: %w", err)
	}
	return out, nil
}

func parseMessage(uid mail.UID, r io.Reader) (mail.Message, error) {
	m, err := netmail.ReadMessage(r)
	if err != nil {
		return mail.Message{}, err
	}
	msg := mail.Message{
		UID:     uid,
		Subject: decodeSubject(m.Header.Get("Subject")),
		RawDate: m.Header.Get("Date"),
	}
	msg.Parts, err = collectParts(
		m.Header.Get("Content-Type"),
		m.Header.Get("Content-Transfer-Encoding"),
		m.Header.Get("Content-Disposition"),
		m.Body,
	)
	if err != nil {
		return mail.Message{}, err
	}
	return msg, nil
}

func decodeSubject(raw string) string {
	dec := new(mime.WordDecoder)
	s, err := dec.DecodeHeader(raw)
	if err != nil {
		return raw
	}
	return s
}

// collectParts flattens a possibly nested MIME tree into leaf parts.
// NextRawPart keeps the quoted-printable bytes intact.
func collectParts(ctype, cte, cdisp string, body io.Reader) ([]mail.Part, error) {
	mediaType, params, err := mime.ParseMediaType(ctype)
	if err != nil || mediaType == "" {
		mediaType = "text/plain" // unmarked bodies are plain text
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		disp := ""
		if cdisp != "" {
			if d, _, err := mime.ParseMediaType(cdisp); err == nil {
				disp = d
			}
		}
		return []mail.Part{{MediaType: mediaType, Encoding: cte, Disposition: disp, Body: raw}}, nil
	}

	mr := multipart.NewReader(body, params["boundary"])
	var parts []mail.Part
	for {
		p, err := mr.NextRawPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return parts, err
		}
		sub, err := collectParts(
			p.Header.Get("Content-Type"),
			p.Header.Get("Content-Transfer-Encoding"),
			p.Header.Get("Content-Disposition"),
			p,
		)
		if err != nil {
			return parts, err
		}
		parts = append(parts, sub...)
	}
}

var _ mail.Client = (*IMAPClient)(nil)
