package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"club-notifier/storage"
	"club-notifier/summary"
	"club-notifier/template"
	"club-notifier/types"

	"github.com/dustin/go-humanize"
)

// Store is the part of storage.Storage the scheduler needs.
type Store interface {
	ListSchedules(ctx context.Context) ([]*storage.Schedule, error)
	ClaimSend(ctx context.Context, scheduleID, day string) (bool, error)
	ReleaseSend(ctx context.Context, scheduleID, day string) error
}

// Fetcher loads raw booking data; playtomic.Client satisfies it.
type Fetcher interface {
	FetchAvailability(ctx context.Context, tenantID, date, sportID string) ([]types.Record, error)
	FetchMatches(ctx context.Context, tenantID, date string) ([]types.Record, error)
	FetchEvents(ctx context.Context, tenantID, date string) (types.EventSources, error)
	FetchClubName(ctx context.Context, clubURL string) (string, error)
}

type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

type Scheduler struct {
	Store         Store
	Fetcher       Fetcher
	Sender        Sender
	Location      *time.Location
	DefaultOffset int
	Now           func() time.Time
}

func New(store Store, fetcher Fetcher, sender Sender, loc *time.Location, defaultOffset int) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Store:         store,
		Fetcher:       fetcher,
		Sender:        sender,
		Location:      loc,
		DefaultOffset: defaultOffset,
		Now:           time.Now,
	}
}

// Rendered is a schedule's message ready to send.
type Rendered struct {
	Summary string
	Message string
	Count   int
	Date    time.Time
}

// Start runs due schedules every interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	log.Printf("🔍 Scheduler started (every %s)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Scheduler stopped")
			return
		case <-ticker.C:
			s.RunDue(ctx, s.Now())
		}
	}
}

// RunDue sends every schedule that is due at now and not sent yet today.
// It returns how many messages went out. One failing schedule does not
// stop the others.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) int {
	scheds, err := s.Store.ListSchedules(ctx)
	if err != nil {
		log.Printf("⚠️ Error fetching schedules: %v", err)
		return 0
	}

	sent := 0
	for _, sched := range scheds {
		local := now.In(s.location(sched))
		if !sched.DueAt(local) {
			continue
		}
		if s.runOne(ctx, sched, local) {
			sent++
		}
	}
	if sent > 0 {
		log.Printf("📋 Sent %d of %d schedules", sent, len(scheds))
	}
	return sent
}

func (s *Scheduler) runOne(ctx context.Context, sched *storage.Schedule, local time.Time) bool {
	day := local.Format("2006-01-02")
	claimed, err := s.Store.ClaimSend(ctx, sched.ID, day)
	if err != nil {
		log.Printf("⚠️ Error claiming schedule %s: %v", sched.ID, err)
		return false
	}
	if !claimed {
		return false
	}

	if err := s.send(ctx, sched, local); err != nil {
		log.Printf("⚠️ Schedule %s failed: %v", sched.ID, err)
		if err := s.Store.ReleaseSend(ctx, sched.ID, day); err != nil {
			log.Printf("⚠️ Error releasing schedule %s: %v", sched.ID, err)
		}
		return false
	}
	return true
}

// SendNow renders and delivers a schedule immediately, ignoring its timing.
func (s *Scheduler) SendNow(ctx context.Context, sched *storage.Schedule) error {
	return s.send(ctx, sched, s.Now().In(s.location(sched)))
}

func (s *Scheduler) send(ctx context.Context, sched *storage.Schedule, local time.Time) error {
	r, err := s.Render(ctx, sched, local)
	if err != nil {
		return err
	}
	if err := s.Sender.Send(ctx, sched.Phone, r.Message); err != nil {
		return err
	}
	log.Printf("✅ Message sent for schedule %s (%s, %d items)", sched.ID, sched.Category, r.Count)
	return nil
}

// Render fetches the schedule's data for its target day and compiles the
// message without sending it.
func (s *Scheduler) Render(ctx context.Context, sched *storage.Schedule, now time.Time) (Rendered, error) {
	loc := s.location(sched)
	date := now.In(loc).AddDate(0, 0, sched.DayOffset)
	day := date.Format("2006-01-02")

	data, err := s.fetch(ctx, sched, day)
	if err != nil {
		return Rendered{}, fmt.Errorf("fetch %s for %s: %w", sched.Category, day, err)
	}
	log.Printf("🔍 Rendering schedule %s for %s (%s payload)", sched.ID, day, humanize.Bytes(uint64(len(data))))

	res := summary.Build(summary.Request{
		Category:      sched.Category,
		Data:          data,
		Variant:       sched.Variant,
		Target:        sched.Target,
		Timezone:      loc.String(),
		OffsetMinutes: sched.Offset(s.DefaultOffset),
		EventID:       sched.EventID,
	})

	tctx := template.Context{
		Summary:  res.Summary,
		ClubName: s.clubName(ctx, sched),
		Date:     date,
		Sport:    sched.Sport,
		Count:    res.Count,
	}
	// Free-form content may itself use the other tokens.
	tctx.MessageContent = template.Compile(sched.MessageContent, tctx.Tokens())

	return Rendered{
		Summary: res.Summary,
		Message: template.Compile(sched.Template, tctx.Tokens()),
		Count:   res.Count,
		Date:    date,
	}, nil
}

func (s *Scheduler) fetch(ctx context.Context, sched *storage.Schedule, day string) (json.RawMessage, error) {
	var payload any
	var err error
	switch sched.Category {
	case summary.CourtAvailability:
		payload, err = s.Fetcher.FetchAvailability(ctx, sched.TenantID, day, sched.Sport)
	case summary.PartialMatches:
		payload, err = s.Fetcher.FetchMatches(ctx, sched.TenantID, day)
	case summary.Competitions:
		payload, err = s.Fetcher.FetchEvents(ctx, sched.TenantID, day)
	default:
		return nil, fmt.Errorf("%w: %d", summary.ErrUnknownCategory, int(sched.Category))
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}

func (s *Scheduler) clubName(ctx context.Context, sched *storage.Schedule) string {
	if sched.ClubName != "" || sched.ClubURL == "" {
		return sched.ClubName
	}
	name, err := s.Fetcher.FetchClubName(ctx, sched.ClubURL)
	if err != nil {
		log.Printf("⚠️ Failed to load club name for %s: %v", sched.ID, err)
		return ""
	}
	return name
}

func (s *Scheduler) location(sched *storage.Schedule) *time.Location {
	if sched.Timezone != "" {
		if loc, err := time.LoadLocation(sched.Timezone); err == nil {
			return loc
		}
	}
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
