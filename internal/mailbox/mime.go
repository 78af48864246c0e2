package mailbox

import (
	"bytes"
	"encoding/base64"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fillFromRFC822 parses the raw message bytes into plain text, HTML and
// the calendar flag, falling back to headers when the envelope was thin.
func fillFromRFC822(m *Message, raw []byte) {
	if len(raw) == 0 {
		return
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		// Unparseable framing; treat the whole thing as plain text.
		m.Body = string(raw)
		return
	}

	if m.Subject == "" {
		m.Subject = decodeRFC2047(msg.Header.Get("Subject"))
	}
	if m.From == "" {
		m.From = decodeRFC2047(msg.Header.Get("From"))
	}
	if m.To == "" {
		m.To = decodeRFC2047(msg.Header.Get("To"))
	}

	bodyRaw, _ := io.ReadAll(io.LimitReader(msg.Body, 25<<20))

	plain, htmlPart, calendar := extractMIMEParts(msg.Header, bodyRaw)
	m.HTML = htmlPart
	m.HasCalendar = calendar

	if plain == "" && htmlPart != "" {
		plain = HTMLToText(htmlPart)
	}
	if plain == "" && htmlPart == "" {
		plain = string(bodyRaw)
	}
	m.Body = plain
}

// extractMIMEParts walks the MIME tree collecting the largest text/plain
// and text/html parts and noting any text/calendar part.
func extractMIMEParts(h mail.Header, body []byte) (plain, htmlPart string, calendar bool) {
	ct := h.Get("Content-Type")
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return string(decodeTransferEncoding(body, cte)), "", false
	}
	mediaType = strings.ToLower(mediaType)

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransferEncoding(body, cte)), "", false
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)

		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			partCTE := strings.ToLower(strings.TrimSpace(p.Header.Get("Content-Transfer-Encoding")))
			pMedia, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
			pMedia = strings.ToLower(pMedia)

			b, _ := io.ReadAll(io.LimitReader(p, 20<<20))
			b = decodeTransferEncoding(b, partCTE)

			if strings.HasPrefix(pMedia, "multipart/") {
				pl, ht, cal := extractMIMEParts(mail.Header(p.Header), b)
				if len(pl) > len(plain) {
					plain = pl
				}
				if len(ht) > len(htmlPart) {
					htmlPart = ht
				}
				calendar = calendar || cal
				continue
			}

			switch {
			case strings.HasPrefix(pMedia, "text/plain"):
				if len(b) > len(plain) {
					plain = string(b)
				}
			case strings.HasPrefix(pMedia, "text/html"):
				if len(b) > len(htmlPart) {
					htmlPart = string(b)
				}
			case strings.HasPrefix(pMedia, "text/calendar"):
				calendar = true
			}
		}
		return plain, htmlPart, calendar

	case strings.HasPrefix(mediaType, "text/html"):
		return "", string(decodeTransferEncoding(body, cte)), false
	case strings.HasPrefix(mediaType, "text/calendar"):
		return "", "", true
	default:
		return string(decodeTransferEncoding(body, cte)), "", false
	}
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	default:
		return b
	}
}

func decodeRFC2047(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

var reAnyTag = regexp.MustCompile(`<[^>]+>`)

// HTMLToText renders HTML to whitespace-normalized text. goquery handles
// real documents; the regex fallback covers fragments it can't parse.
func HTMLToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err == nil {
		doc.Find("script,style").Remove()
		text := doc.Text()
		text = strings.ReplaceAll(text, "\u00a0", " ")
		return strings.Join(strings.Fields(text), " ")
	}
	s = reAnyTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
