// internal/track/service.go
package track

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pmercado/jobtrack/internal/ledger"
	"github.com/pmercado/jobtrack/internal/mail"
	"github.com/pmercado/jobtrack/internal/parse"
	"github.com/pmercado/jobtrack/internal/rate"
)

// Pass is one lifecycle category of notifications. The three passes must run
// in declaration order: viewed and closed events can only match rows the
// submitted pass created.
type Pass struct {
	Kind    parse.Kind
	Name    string // checkpoint key and log label
	Subject string // provider-side subject filter
}

// Passes lists the lifecycle passes in their required order.
var Passes = []Pass{
	{Kind: parse.KindSubmitted, Name: "submitted", Subject: parse.SubjectSubmitted},
	{Kind: parse.KindViewed, Name: "viewed", Subject: parse.SubjectViewed},
	{Kind: parse.KindClosed, Name: "closed", Subject: parse.SubjectClosed},
}

// Service runs lifecycle passes against a mailbox and a ledger store.
type Service struct {
	Mail  mail.Client
	Store ledger.Store
	Log   *slog.Logger
	Rate  rate.Limiter     // optional; gates mailbox fetches
	Clock func() time.Time // injectable for tests

	From   string    // sender filter for mailbox queries
	Since  time.Time // lower bound for mailbox queries
	DryRun bool      // log decisions, mutate nothing
}

func NewService(mc mail.Client, st ledger.Store, log *slog.Logger) *Service {
	return &Service{Mail: mc, Store: st, Log: log, Clock: time.Now}
}

// Run executes one lifecycle pass: search the mailbox above the persisted
// checkpoint, then process messages strictly one at a time. Mailbox and
// store I/O errors abort the pass; a message that cannot be parsed is
// recorded in the report and the pass continues.
func (s *Service) Run(ctx context.Context, pass Pass) (Report, error) {
	rep := Report{Pass: pass.Name}

	floor, err := s.Store.Checkpoint(pass.Name)
	if err != nil {
		return rep, fmt.Errorf("load %s checkpoint: %w", pass.Name, err)
	}

	q := mail.Query{
		From:     s.From,
		Since:    s.Since,
		Subject:  pass.Subject,
		AfterUID: mail.UID(floor),
	}
	uids, err := s.Mail.Search(ctx, q)
	if err != nil {
		return rep, fmt.Errorf("search mailbox: %w", err)
	}

	// The query carries the UID floor, but not every server honors UID
	// ranges in SEARCH; filter again and process in ascending order so the
	// checkpoint only ever advances.
	kept := uids[:0]
	for _, uid := range uids {
		if uint32(uid) > floor {
			kept = append(kept, uid)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
	rep.Searched = len(kept)
	s.Log.Info("pass started", "pass", pass.Name, "messages", len(kept), "checkpoint", floor)

	for _, uid := range kept {
		if s.Rate != nil {
			if err := s.Rate.Wait(ctx); err != nil {
				return rep, err
			}
		}
		msgs, err := s.Mail.Fetch(ctx, []mail.UID{uid})
		if err != nil {
			return rep, fmt.Errorf("fetch uid %d: %w", uid, err)
		}
		for _, msg := range msgs {
			if err := s.process(msg, pass, &rep); err != nil {
				// Store failure: abort before the checkpoint moves so the
				// message is retried on the next run.
				return rep, fmt.Errorf("apply uid %d: %w", msg.UID, err)
			}
		}
		if err := s.advance(pass.Name, uid); err != nil {
			return rep, err
		}
	}

	s.Log.Info("pass finished", "pass", pass.Name,
		"applied", rep.Applied, "skipped", rep.Skipped,
		"unmatched", rep.Unmatched, "failed", len(rep.Failures))
	return rep, nil
}

// process applies one message to the ledger. Parse failures land in the
// report; a store I/O error comes back as the return value so the caller
// can stop the pass.
func (s *Service) process(msg mail.Message, pass Pass, rep *Report) error {
	ev, err := BuildEvent(msg, s.Clock())
	if err != nil {
		s.Log.Warn("message failed", "pass", pass.Name, "uid", msg.UID, "error", err)
		rep.Failures = append(rep.Failures, Failure{UID: msg.UID, Err: err})
		return nil
	}
	if ev.Kind != pass.Kind {
		// Unknown subject, or the provider's substring filter outran the
		// classifier. Either way the event carries nothing to apply.
		s.Log.Info("message skipped", "pass", pass.Name, "uid", msg.UID, "subject", msg.Subject)
		rep.Skipped++
		return nil
	}

	switch ev.Kind {
	case parse.KindSubmitted:
		return s.applySubmitted(ev, rep)
	case parse.KindViewed, parse.KindClosed:
		return s.reconcile(ev, rep)
	}
	return nil
}

// applySubmitted always appends, even for a duplicate notification: one row
// per submitted event.
func (s *Service) applySubmitted(ev Event, rep *Report) error {
	rec := ledger.Record{
		UID:           uint32(ev.UID),
		Company:       ev.Company,
		Position:      ev.Position,
		SubmittedDate: ev.EmailDate,
		Location:      ev.Location,
		JobLink:       ev.JobLink,
	}
	s.Log.Info("application submitted", "uid", ev.UID,
		"company", ev.Company, "position", ev.Position, "date", ev.EmailDate)
	if s.DryRun {
		rep.Applied++
		return nil
	}
	if err := s.Store.Append(rec); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	if err := s.Store.Persist(); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	rep.Applied++
	return nil
}

// reconcile matches a viewed or closed event to a ledger row and stamps it.
// The ledger is re-read per event so rows appended earlier in the run are
// visible.
func (s *Service) reconcile(ev Event, rep *Report) error {
	records, err := s.Store.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	key := ledger.MatchKey{Company: ev.Company, Position: ev.Position, AppliedOn: ev.AppliedOn}
	tiers := ledger.ViewedTiers
	if ev.Kind == parse.KindClosed {
		tiers = ledger.ClosedTiers
	}
	row, tier, ok := ledger.Match(records, key, tiers)
	if !ok {
		s.Log.Info("no ledger row matched", "kind", ev.Kind, "uid", ev.UID,
			"company", ev.Company, "position", ev.Position, "applied_on", ev.AppliedOn)
		rep.Unmatched++
		return nil
	}

	var patch ledger.Patch
	if ev.Kind == parse.KindViewed {
		patch.ViewedDate = &ev.EmailDate
	} else {
		patch.ClosedDate = &ev.EmailDate
		patch.ApplicantCount = ev.ApplicantCount
	}
	s.Log.Info("ledger row matched", "kind", ev.Kind, "uid", ev.UID,
		"row", row, "tier", tier, "date", ev.EmailDate)
	if s.DryRun {
		rep.Applied++
		return nil
	}
	if err := s.Store.Update(row, patch); err != nil {
		return fmt.Errorf("update row %d: %w", row, err)
	}
	if err := s.Store.Persist(); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	rep.Applied++
	return nil
}

// advance moves the pass checkpoint past a processed UID. Messages that
// failed are reported, not retried on the next run.
func (s *Service) advance(pass string, uid mail.UID) error {
	if s.DryRun {
		return nil
	}
	if err := s.Store.SetCheckpoint(pass, uint32(uid)); err != nil {
		return fmt.Errorf("advance %s checkpoint: %w", pass, err)
	}
	if err := s.Store.Persist(); err != nil {
		return fmt.Errorf("persist checkpoint: %w", err)
	}
	return nil
}
