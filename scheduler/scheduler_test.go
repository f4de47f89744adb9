package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"club-notifier/storage"
	"club-notifier/summary"
	"club-notifier/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	mu       sync.Mutex
	scheds   []*storage.Schedule
	claimed  map[string]bool
	released []string
	listErr  error
}

func newFakeStore(scheds ...*storage.Schedule) *fakeStore {
	return &fakeStore{scheds: scheds, claimed: make(map[string]bool)}
}

func (f *fakeStore) ListSchedules(ctx context.Context) ([]*storage.Schedule, error) {
	return f.scheds, f.listErr
}

func (f *fakeStore) ClaimSend(ctx context.Context, id, day string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := id + ":" + day
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

func (f *fakeStore) ReleaseSend(ctx context.Context, id, day string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := id + ":" + day
	delete(f.claimed, key)
	f.released = append(f.released, key)
	return nil
}

type fakeFetcher struct {
	availability []types.Record
	matches      []types.Record
	events       types.EventSources
	clubName     string
	err          error
	dates        []string
}

func (f *fakeFetcher) FetchAvailability(ctx context.Context, tenantID, date, sportID string) ([]types.Record, error) {
	f.dates = append(f.dates, date)
	return f.availability, f.err
}

func (f *fakeFetcher) FetchMatches(ctx context.Context, tenantID, date string) ([]types.Record, error) {
	f.dates = append(f.dates, date)
	return f.matches, f.err
}

func (f *fakeFetcher) FetchEvents(ctx context.Context, tenantID, date string) (types.EventSources, error) {
	f.dates = append(f.dates, date)
	return f.events, f.err
}

func (f *fakeFetcher) FetchClubName(ctx context.Context, clubURL string) (string, error) {
	if f.clubName == "" {
		return "", errors.New("no name")
	}
	return f.clubName, nil
}

type sentMsg struct{ phone, text string }

type fakeSender struct {
	sent []sentMsg
	err  error
}

func (f *fakeSender) Send(ctx context.Context, phone, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMsg{phone, text})
	return nil
}

func availabilitySchedule() *storage.Schedule {
	return &storage.Schedule{
		ID:             "s-1",
		OrgID:          "org",
		ClubName:       "Padel Club",
		TenantID:       "tenant",
		Sport:          "PADEL",
		Category:       summary.CourtAvailability,
		Template:       "🎾 {{club_name}} {{date_display_short}} ({{count_slots}})\n{{summary}}\n{{message_content}}",
		MessageContent: "Book at {{club_name}}!",
		Phone:          "34600000000",
		SendAt:         "08:00",
		Days:           []string{"Wed"},
		Enabled:        true,
	}
}

func testFetcher() *fakeFetcher {
	return &fakeFetcher{availability: []types.Record{{
		"resource_id": "c1",
		"slots": []any{
			map[string]any{"start_time": "09:00:00", "duration": float64(90)},
			map[string]any{"start_time": "19:30:00", "duration": float64(60)},
		},
	}}}
}

// Wednesday 2024-05-01 09:00 UTC.
var wednesday = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestRender_CompilesTemplate(t *testing.T) {
	s := New(newFakeStore(), testFetcher(), &fakeSender{}, time.UTC, 60)

	r, err := s.Render(context.Background(), availabilitySchedule(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, "Morning: 10am – 11:30am x1\nEvening: 8:30pm – 9:30pm x1", r.Summary)
	assert.Equal(t,
		"🎾 Padel Club Wed, May 1 (2)\nMorning: 10am – 11:30am x1\nEvening: 8:30pm – 9:30pm x1\nBook at Padel Club!",
		r.Message)
}

func TestRender_DayOffsetAndScheduleOffset(t *testing.T) {
	f := testFetcher()
	s := New(newFakeStore(), f, &fakeSender{}, time.UTC, 60)

	sched := availabilitySchedule()
	sched.DayOffset = 1
	zero := 0
	sched.OffsetMinutes = &zero

	r, err := s.Render(context.Background(), sched, wednesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-02"}, f.dates)
	assert.Contains(t, r.Summary, "Morning: 9am – 10:30am x1")
	assert.Contains(t, r.Message, "Thu, May 2")
}

func TestRender_ClubNameFromURL(t *testing.T) {
	f := testFetcher()
	f.clubName = "Scraped Club"
	s := New(newFakeStore(), f, &fakeSender{}, time.UTC, 60)

	sched := availabilitySchedule()
	sched.ClubName = ""
	sched.ClubURL = "https://playtomic.io/scraped/1"

	r, err := s.Render(context.Background(), sched, wednesday)
	require.NoError(t, err)
	assert.Contains(t, r.Message, "🎾 Scraped Club")
}

func TestRender_Competitions(t *testing.T) {
	f := &fakeFetcher{events: types.EventSources{
		Tournaments: []types.Record{{"tournament_id": "t1", "name": "Americano", "start_date": "2024-05-01T17:00:00", "max_players": float64(8)}},
	}}
	s := New(newFakeStore(), f, &fakeSender{}, time.UTC, 60)

	sched := availabilitySchedule()
	sched.Category = summary.Competitions
	sched.Template = "{{summary}}"

	r, err := s.Render(context.Background(), sched, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count)
	assert.Contains(t, r.Message, "*Americano*\n📅 May 1\n⏰ 6pm")
}

func TestRender_FetchError(t *testing.T) {
	f := testFetcher()
	f.err = errors.New("api down")
	s := New(newFakeStore(), f, &fakeSender{}, time.UTC, 60)

	_, err := s.Render(context.Background(), availabilitySchedule(), wednesday)
	assert.ErrorContains(t, err, "api down")
}

func TestRunDue_SendsOncePerDay(t *testing.T) {
	notYet := availabilitySchedule()
	notYet.ID = "later"
	notYet.SendAt = "18:00"
	disabled := availabilitySchedule()
	disabled.ID = "off"
	disabled.Enabled = false

	store := newFakeStore(availabilitySchedule(), notYet, disabled)
	sender := &fakeSender{}
	s := New(store, testFetcher(), sender, time.UTC, 60)

	assert.Equal(t, 1, s.RunDue(context.Background(), wednesday))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "34600000000", sender.sent[0].phone)

	assert.Equal(t, 0, s.RunDue(context.Background(), wednesday.Add(time.Hour)), "already claimed today")
	assert.Len(t, sender.sent, 1)

	assert.Equal(t, 1, s.RunDue(context.Background(), wednesday.Add(10*time.Hour)), "18:00 schedule now due")
	assert.Len(t, sender.sent, 2)
}

func TestRunDue_ReleasesClaimOnFailure(t *testing.T) {
	store := newFakeStore(availabilitySchedule())
	sender := &fakeSender{err: errors.New("emulator offline")}
	s := New(store, testFetcher(), sender, time.UTC, 60)

	assert.Equal(t, 0, s.RunDue(context.Background(), wednesday))
	assert.Equal(t, []string{"s-1:2024-05-01"}, store.released)

	sender.err = nil
	assert.Equal(t, 1, s.RunDue(context.Background(), wednesday), "retried on the next run")
}

func TestRunDue_UsesScheduleTimezone(t *testing.T) {
	sched := availabilitySchedule()
	sched.Timezone = "America/New_York"
	s := New(newFakeStore(sched), testFetcher(), &fakeSender{}, time.UTC, 60)

	// 09:00 UTC is 05:00 in New York, before the 08:00 send time.
	assert.Equal(t, 0, s.RunDue(context.Background(), wednesday))
	assert.Equal(t, 1, s.RunDue(context.Background(), wednesday.Add(4*time.Hour)))
}

func TestRunDue_ListError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("redis down")
	s := New(store, testFetcher(), &fakeSender{}, time.UTC, 60)
	assert.Equal(t, 0, s.RunDue(context.Background(), wednesday))
}

func TestStart_StopsOnCancel(t *testing.T) {
	s := New(newFakeStore(), testFetcher(), &fakeSender{}, time.UTC, 60)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
