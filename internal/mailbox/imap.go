package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Message is one fetched email, already decoded from the wire: headers,
// plain body, HTML body, and whether a calendar part was present.
type Message struct {
	UID     imap.UID
	From    string
	To      string
	Subject string
	Date    time.Time

	Body        string
	HTML        string
	HasCalendar bool
}

// Reader fetches mail for one account over IMAP. Messages come back in
// ascending UID order so the caller can advance its high-water mark.
type Reader struct {
	Addr     string // host:port, 993 assumed when port missing
	Username string
	Password string
	Mailbox  string // INBOX when empty
	MaxBatch int    // cap per fetch, 500 when zero

	// AgeCutoff skips messages older than this even on a fresh account.
	AgeCutoff time.Duration
}

func (r *Reader) addr() string {
	if strings.Contains(r.Addr, ":") {
		return r.Addr
	}
	return r.Addr + ":993"
}

func (r *Reader) dial(ctx context.Context) (*imapclient.Client, error) {
	if r.Addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if r.Username == "" || r.Password == "" {
		return nil, errors.New("imap username/password is required")
	}

	host, _, _ := strings.Cut(r.addr(), ":")
	c, err := imapclient.DialTLS(r.addr(), &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Best-effort close on context cancel.
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(r.Username, r.Password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// FetchSince pulls messages with UID > sinceUID, capped at MaxBatch,
// oldest first. Returns the messages and the highest UID seen (sinceUID
// when nothing new arrived).
func (r *Reader) FetchSince(ctx context.Context, sinceUID imap.UID) ([]Message, imap.UID, error) {
	c, err := r.dial(ctx)
	if err != nil {
		return nil, sinceUID, err
	}
	defer logoutAndClose(c)

	box := r.Mailbox
	if box == "" {
		box = "INBOX"
	}
	if _, err := c.Select(box, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, sinceUID, fmt.Errorf("imap select %q: %w", box, err)
	}

	cutoff := time.Now().AddDate(0, -3, 0)
	if r.AgeCutoff > 0 {
		cutoff = time.Now().Add(-r.AgeCutoff)
	}

	criteria := &imap.SearchCriteria{Since: cutoff}
	if sinceUID > 0 {
		var uidSet imap.UIDSet
		uidSet.AddRange(sinceUID+1, 0)
		criteria.UID = []imap.UIDSet{uidSet}
	}

	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, sinceUID, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, sinceUID, nil
	}

	max := r.MaxBatch
	if max <= 0 {
		max = 500
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:          true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]Message, 0, len(uids))
	highest := sinceUID

	for {
		select {
		case <-ctx.Done():
			return nil, sinceUID, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, sinceUID, fmt.Errorf("imap fetch collect: %w", err)
		}

		var m Message
		m.UID = buf.UID
		if m.UID > highest {
			highest = m.UID
		}
		if buf.Envelope != nil {
			m.Subject = decodeRFC2047(buf.Envelope.Subject)
			m.Date = buf.Envelope.Date
			m.From = joinAddrs(buf.Envelope.From)
			m.To = joinAddrs(buf.Envelope.To)
		}
		if raw := buf.FindBodySection(bodyAll); raw != nil {
			fillFromRFC822(&m, raw)
		}
		out = append(out, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, sinceUID, fmt.Errorf("imap fetch close: %w", err)
	}

	return out, highest, nil
}

// MarkSeen flags the given messages as read. Runs on its own read-write
// session since fetches deliberately select read-only.
func (r *Reader) MarkSeen(ctx context.Context, uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	c, err := r.dial(ctx)
	if err != nil {
		return err
	}
	defer logoutAndClose(c)

	box := r.Mailbox
	if box == "" {
		box = "INBOX"
	}
	if _, err := c.Select(box, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return fmt.Errorf("imap select %q: %w", box, err)
	}

	store := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := store.Close(); err != nil {
		return fmt.Errorf("imap mark seen: %w", err)
	}
	return nil
}

func logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		log.Printf("[mailbox] imap logout: %v", err)
	}
	_ = c.Close()
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := &addrs[i]
		addr := strings.TrimSpace(a.Addr())
		name := strings.TrimSpace(a.Name)
		switch {
		case name != "" && addr != "":
			parts = append(parts, fmt.Sprintf("%s <%s>", name, addr))
		case addr != "":
			parts = append(parts, addr)
		case name != "":
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}
