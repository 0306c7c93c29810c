package runtime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emersion/go-imap"

	"github.com/pmercado/jobtrack/internal/parse"
)

const multipartMessage = "Subject: =?UTF-8?Q?Your_application_was_successfully_submitted?=\r\n" +
	"Date: Mon, 02 Jan 2024 03:04:05 +0000 (UTC)\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=UTF-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Your application for Backend Engi=\r\nneer was successfully submitted to Acme Corp.. Each day...\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=UTF-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"<p>html version</p>\r\n" +
	"--b1--\r\n"

func TestParseMessageKeepsTransportEncoding(t *testing.T) {
	msg, err := parseMessage(42, strings.NewReader(multipartMessage))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if msg.Subject != "Your application was successfully submitted" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if msg.RawDate != "Mon, 02 Jan 2024 03:04:05 +0000 (UTC)" {
		t.Fatalf("raw date = %q", msg.RawDate)
	}
	if len(msg.Parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(msg.Parts))
	}

	text := msg.Parts[0]
	if text.MediaType != "text/plain" {
		t.Fatalf("first part type = %q", text.MediaType)
	}
	if text.Encoding != "quoted-printable" {
		t.Fatalf("encoding tag = %q: raw parts must keep it", text.Encoding)
	}
	// The soft break must still be in the raw bytes; decoding is parse's job.
	if !strings.Contains(string(text.Body), "Engi=\r\nneer") {
		t.Fatalf("body was decoded prematurely: %q", text.Body)
	}

	decoded := parse.DecodeBody(text.Body, text.Encoding)
	want := "Your application for Backend Engineer was successfully submitted to Acme Corp.. Each day..."
	if decoded != want {
		t.Fatalf("decoded = %q", decoded)
	}
}

func TestParseMessageSinglePart(t *testing.T) {
	raw := "Subject: Acme has closed\r\n" +
		"Date: Thu, 01 Feb 2024 09:00:00 +0800\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"the Clerk job you applied for at Acme has expired"
	msg, err := parseMessage(7, strings.NewReader(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(msg.Parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(msg.Parts))
	}
	if msg.Parts[0].MediaType != "text/plain" {
		t.Fatalf("type = %q", msg.Parts[0].MediaType)
	}
	if !strings.Contains(string(msg.Parts[0].Body), "has expired") {
		t.Fatalf("body = %q", msg.Parts[0].Body)
	}
}

func TestCollectFetchedDrainsAfterParseError(t *testing.T) {
	section := &imap.BodySectionName{Peek: true}
	// Server responses carry the section name without Peek; GetBody strips
	// Peek from the requested name before matching, so the fake must key the
	// body map the same way or the lookup never matches.
	respSection := &imap.BodySectionName{}
	body := func(s string) map[*imap.BodySectionName]imap.Literal {
		return map[*imap.BodySectionName]imap.Literal{respSection: bytes.NewBufferString(s)}
	}
	good := "Subject: ok\r\n" +
		"Date: Mon, 02 Jan 2024 03:04:05 +0000\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"body"

	// More responses than the first error leaves behind; all must be consumed
	// or the sender would block forever.
	ch := make(chan *imap.Message, 3)
	ch <- &imap.Message{Uid: 1, Body: body("not a header line\r\n\r\n")}
	ch <- &imap.Message{Uid: 2, Body: body(good)}
	ch <- &imap.Message{Uid: 3, Body: body(good)}
	close(ch)
	done := make(chan error, 1)
	done <- nil

	if _, err := collectFetched(ch, done, section); err == nil {
		t.Fatalf("expected parse error for uid 1")
	}
	if n := len(ch); n != 0 {
		t.Fatalf("%d responses left undrained", n)
	}
	if len(done) != 0 {
		t.Fatalf("fetch result left unconsumed")
	}
}
