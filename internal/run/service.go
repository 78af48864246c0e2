package run

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/emersion/go-imap/v2"
	"golang.org/x/sync/errgroup"

	"mailharvest-engine/internal/assemble"
	"mailharvest-engine/internal/config"
	"mailharvest-engine/internal/domain"
	"mailharvest-engine/internal/extract"
	"mailharvest-engine/internal/filter"
	"mailharvest-engine/internal/mailbox"
	"mailharvest-engine/internal/report"
	"mailharvest-engine/internal/rules"
	"mailharvest-engine/internal/secrets"
	"mailharvest-engine/internal/sink"
	"mailharvest-engine/internal/store"
)

const accountConcurrency = 3

// Service wires one batch run: fetch each account's new mail, filter it,
// extract contacts, dedup across accounts, then persist and report.
type Service struct {
	Cfg       config.Config
	DB        *store.DB
	Repo      *rules.Repository
	Filter    *filter.EmailFilter
	Extractor *extract.ContactExtractor
	Sink      *sink.Client    // nil when no contact API is configured
	Emailer   *report.Emailer // nil when no SMTP report is configured
}

// RunOnce scans every configured account. One account failing marks it
// failed in the summary but never aborts the others.
func (s *Service) RunOnce(ctx context.Context) (domain.RunSummary, error) {
	summary := domain.RunSummary{
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Errors:    map[string]string{},
	}

	asm := assemble.New()
	known, err := s.DB.KnownEmails(ctx)
	if err != nil {
		return summary, fmt.Errorf("load known emails: %w", err)
	}
	asm.KnownEmails(known)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(accountConcurrency)

	for _, acc := range s.Cfg.Mail.Accounts {
		acc := acc
		g.Go(func() error {
			res := s.scanAccount(gctx, acc, asm)
			mu.Lock()
			summary.Accounts = append(summary.Accounts, res)
			if res.Status == "failed" {
				summary.Failed++
				summary.Errors[res.Account] = res.Error
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range summary.Accounts {
		summary.Fetched += res.Fetched
		summary.Passed += res.FilterStats.Passed
		summary.Extracted += res.Extracted
		summary.Duplicates += res.Duplicates
	}

	contacts := asm.Contacts()
	summary.Contacts = contacts

	if s.Sink != nil && len(contacts) > 0 {
		saved, err := s.Sink.SaveContacts(ctx, contacts)
		if err != nil {
			log.Printf("[run] save contacts: %v", err)
			summary.Errors["contact_api"] = err.Error()
		} else {
			summary.Inserted = saved.Inserted
			summary.Skipped = saved.Skipped
		}
	} else {
		summary.Inserted = len(contacts)
	}

	summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	if s.Sink != nil {
		if err := s.Sink.LogRun(ctx, summary); err != nil {
			log.Printf("[run] log run: %v", err)
		}
	}
	if path, err := report.Write(s.Cfg.Report.Dir, summary); err != nil {
		log.Printf("[run] write report: %v", err)
	} else {
		log.Printf("[run] report written to %s", path)
	}
	if s.Emailer != nil {
		if err := s.Emailer.Send(summary); err != nil {
			log.Printf("[run] email report: %v", err)
		}
	}

	return summary, nil
}

func (s *Service) scanAccount(ctx context.Context, acc config.Account, asm *assemble.Assembler) domain.AccountRunResult {
	res := domain.AccountRunResult{Account: acc.Name, Status: "success"}

	fail := func(err error) domain.AccountRunResult {
		log.Printf("[run] account %s: %v", acc.Name, err)
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}

	password, err := secrets.GetIMAPPassword(
		secrets.IMAPKeyringAccount(acc.Username, acc.IMAPHost), acc.PasswordEnv)
	if err != nil {
		return fail(err)
	}

	lastUID, err := s.DB.LastUID(ctx, acc.Name)
	if err != nil {
		return fail(fmt.Errorf("load last uid: %w", err))
	}

	reader := &mailbox.Reader{
		Addr:      fmt.Sprintf("%s:%d", acc.IMAPHost, acc.IMAPPort),
		Username:  acc.Username,
		Password:  password,
		Mailbox:   acc.Mailbox,
		MaxBatch:  s.Cfg.Mail.MaxBatch,
		AgeCutoff: time.Duration(s.Cfg.Mail.MaxAgeMonths) * 30 * 24 * time.Hour,
	}

	msgs, highest, err := reader.FetchSince(ctx, imap.UID(lastUID))
	if err != nil {
		return fail(fmt.Errorf("fetch: %w", err))
	}
	res.Fetched = len(msgs)
	res.LastUID = uint32(highest)
	log.Printf("[run] account %s: %d new messages (uid > %d)", acc.Name, len(msgs), lastUID)

	processed := s.processMessages(ctx, acc, msgs, asm, &res)

	if s.Cfg.Mail.MarkProcessed && len(processed) > 0 {
		if err := reader.MarkSeen(ctx, processed); err != nil {
			log.Printf("[run] account %s: mark seen: %v", acc.Name, err)
		}
	}

	// Advance the mark even when nothing passed; the mail was looked at.
	if highest > imap.UID(lastUID) {
		if err := s.DB.SetLastUID(ctx, acc.Name, uint32(highest)); err != nil {
			log.Printf("[run] account %s: save last uid: %v", acc.Name, err)
		}
	}
	return res
}

func (s *Service) processMessages(ctx context.Context, acc config.Account, msgs []mailbox.Message, asm *assemble.Assembler, res *domain.AccountRunResult) []imap.UID {
	var processed []imap.UID

	for _, msg := range msgs {
		res.FilterStats.Total++

		if msg.HasCalendar {
			res.FilterStats.Calendar++
			if !s.Cfg.CalendarInvites.Process {
				continue
			}
			// Calendar invites skip recruiter filtering entirely.
		} else {
			if s.Filter.IsJunk(msg.From) {
				res.FilterStats.Junk++
				continue
			}
			if !s.Filter.IsRecruiter(ctx, msg.Subject, msg.Body, msg.From) {
				res.FilterStats.NotRecruiter++
				continue
			}
		}
		res.FilterStats.Passed++
		processed = append(processed, msg.UID)

		contact := s.Extractor.Extract(ctx, extract.Message{
			From:    msg.From,
			Subject: msg.Subject,
			Body:    msg.Body,
			HTML:    msg.HTML,
		})
		contact.SourceEmail = acc.Username

		if !asm.Add(contact) {
			res.Duplicates++
			continue
		}
		res.Extracted++

		if _, err := s.DB.InsertExtractIgnore(ctx, contact); err != nil {
			log.Printf("[run] account %s: store contact: %v", acc.Name, err)
		}
	}
	return processed
}
