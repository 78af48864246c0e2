package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestFillFromRFC822PlainText(t *testing.T) {
	raw := crlf(`From: Jane Doe <jane@corp.example.com>
Subject: Hello
Content-Type: text/plain; charset=utf-8

We have an opportunity for you.
`)
	var m Message
	fillFromRFC822(&m, raw)

	assert.Contains(t, m.Body, "We have an opportunity for you.")
	assert.Empty(t, m.HTML)
	assert.False(t, m.HasCalendar)
	// Headers fill in when the envelope left them empty.
	assert.Equal(t, "Hello", m.Subject)
}

func TestFillFromRFC822MultipartAlternative(t *testing.T) {
	raw := crlf(`From: jane@corp.example.com
Subject: Role
Content-Type: multipart/alternative; boundary="BOUND"

--BOUND
Content-Type: text/plain; charset=utf-8

plain body here
--BOUND
Content-Type: text/html; charset=utf-8

<html><body><p>html body here</p></body></html>
--BOUND--
`)
	var m Message
	fillFromRFC822(&m, raw)

	assert.Contains(t, m.Body, "plain body here")
	assert.Contains(t, m.HTML, "html body here")
	assert.False(t, m.HasCalendar)
}

func TestFillFromRFC822CalendarPart(t *testing.T) {
	raw := crlf(`From: jane@corp.example.com
Subject: Interview invite
Content-Type: multipart/mixed; boundary="BOUND"

--BOUND
Content-Type: text/plain

Interview at 3pm.
--BOUND
Content-Type: text/calendar; method=REQUEST

BEGIN:VCALENDAR
END:VCALENDAR
--BOUND--
`)
	var m Message
	fillFromRFC822(&m, raw)

	assert.True(t, m.HasCalendar)
	assert.Contains(t, m.Body, "Interview at 3pm.")
}

func TestFillFromRFC822QuotedPrintable(t *testing.T) {
	raw := crlf(`From: jane@corp.example.com
Subject: QP
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: quoted-printable

Salary =E2=82=AC90k
`)
	var m Message
	fillFromRFC822(&m, raw)
	assert.Contains(t, m.Body, "Salary €90k")
}

func TestFillFromRFC822Base64(t *testing.T) {
	// "hello recruiter" base64-encoded.
	raw := crlf(`From: jane@corp.example.com
Subject: B64
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: base64

aGVsbG8gcmVjcnVpdGVy
`)
	var m Message
	fillFromRFC822(&m, raw)
	assert.Contains(t, m.Body, "hello recruiter")
}

func TestFillFromRFC822HTMLOnlyFallsBackToText(t *testing.T) {
	raw := crlf(`From: jane@corp.example.com
Subject: HTML only
Content-Type: text/html; charset=utf-8

<html><body><p>Great   role</p><script>ignored()</script></body></html>
`)
	var m Message
	fillFromRFC822(&m, raw)

	assert.NotEmpty(t, m.HTML)
	assert.Contains(t, m.Body, "Great role")
	assert.NotContains(t, m.Body, "ignored")
}

func TestDecodeRFC2047(t *testing.T) {
	assert.Equal(t, "Héllo", decodeRFC2047("=?utf-8?Q?H=C3=A9llo?="))
	assert.Equal(t, "plain subject", decodeRFC2047("plain subject"))
	assert.Equal(t, "", decodeRFC2047("  "))
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText("<div><p>Jane Doe</p><p>Acme&nbsp;Corp</p><style>.x{}</style></div>")
	assert.Equal(t, "Jane Doe Acme Corp", got)
}
