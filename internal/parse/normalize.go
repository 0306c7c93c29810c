// internal/parse/normalize.go
package parse

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// CollapseSpace reduces every whitespace run to a single space and trims.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// DecodeBody decodes the transport encoding of a message part and flattens
// the result to one normalized line. An empty or undecodable body yields the
// empty string rather than an error; downstream extraction treats that as a
// miss on every field.
func DecodeBody(body []byte, encoding string) string {
	if len(body) == 0 {
		return ""
	}
	text := string(body)
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		// The reader collapses soft line breaks as it decodes. On a
		// malformed tail, keep whatever decoded cleanly.
		decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
		if err == nil || len(decoded) > 0 {
			text = string(decoded)
		} else {
			text = strings.ReplaceAll(text, "=\r\n", "")
			text = strings.ReplaceAll(text, "=\n", "")
		}
	case "base64":
		compact := strings.Join(strings.Fields(text), "")
		if decoded, err := base64.StdEncoding.DecodeString(compact); err == nil {
			text = string(decoded)
		}
	}
	return CollapseSpace(text)
}
